package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speciestrend/internal/trend"
)

func TestLoadCSV_Long(t *testing.T) {
	csvData := `Año,Panthera onca,Vaquita,Kakapo
1990,100,600,
2000,50,NA,51
2010,0,30,62`

	table, err := LoadCSV(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}

	names := table.Names()
	want := []string{"Panthera onca", "Vaquita", "Kakapo"}
	if len(names) != len(want) {
		t.Fatalf("expected %d species, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("species %d: expected %q, got %q", i, want[i], names[i])
		}
	}

	onca, ok := table.Lookup("Panthera onca")
	if !ok {
		t.Fatal("Panthera onca not found")
	}
	est := trend.FitAndEstimate(onca)
	if est.Year != 2010 {
		t.Errorf("expected 2010, got %d (%s)", est.Year, est.Outcome)
	}

	vaquita, _ := table.Lookup("Vaquita")
	if vaquita.Len() != 3 {
		t.Errorf("expected 3 points including the gap, got %d", vaquita.Len())
	}
	if n := len(vaquita.ValidSubset()); n != 2 {
		t.Errorf("expected 2 valid points, got %d", n)
	}

	kakapo, _ := table.Lookup("Kakapo")
	if kakapo.Points[0].Present {
		t.Error("empty cell should be missing")
	}
}

func TestLoadCSV_ByteOrderMark(t *testing.T) {
	csvData := "\ufeffAño,Vaquita\n1997,567\n2015,59\n"

	table, err := LoadCSV(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("failed to load CSV with a byte order mark: %v", err)
	}
	vaquita, ok := table.Lookup("Vaquita")
	if !ok {
		t.Fatalf("Vaquita not found in %v", table.Names())
	}
	if n := len(vaquita.ValidSubset()); n != 2 {
		t.Errorf("expected 2 valid points, got %d", n)
	}
}

func TestLoadCSV_Wide(t *testing.T) {
	csvData := `Especie,1990,2000,notes,2010
Dodo,100,50,x,0
Quagga,80,,y,20
,1,2,3,4`

	table, err := LoadCSV(strings.NewReader(csvData), &Options{Layout: LayoutWide})
	if err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 species, got %d", table.Len())
	}

	dodo, ok := table.Lookup("Dodo")
	if !ok {
		t.Fatal("Dodo not found")
	}
	years := dodo.Years()
	if len(years) != 3 || years[0] != 1990 || years[2] != 2010 {
		t.Errorf("unexpected years %v", years)
	}

	quagga, _ := table.Lookup("Quagga")
	if n := len(quagga.ValidSubset()); n != 2 {
		t.Errorf("expected 2 valid points, got %d", n)
	}
}

func TestLoadCSV_CustomYearColumn(t *testing.T) {
	csvData := "year;a\n2000;5\n2001;4\n"
	table, err := LoadCSV(strings.NewReader(csvData), &Options{YearColumn: "year", Delimiter: ';'})
	if err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}
	a, _ := table.Lookup("a")
	if a.Len() != 2 {
		t.Errorf("expected 2 points, got %d", a.Len())
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts *Options
	}{
		{"missing year column", "Year,a\n2000,1\n", nil},
		{"header only", "Año,a\n", nil},
		{"empty", "", nil},
		{"wide without year headers", "name,foo,bar\nx,1,2\n", &Options{Layout: LayoutWide}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCSV(strings.NewReader(tt.data), tt.opts); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := LoadCSV(strings.NewReader("Año,a\n"), nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestLoad_DispatchesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "especies_en_peligro.csv")
	if err := os.WriteFile(path, []byte("Año,a\n2000,10\n2010,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 species, got %d", table.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1990", 1990, true},
		{" 1990.0 ", 1990, true},
		{"\"2001\"", 2001, true},
		{"1990.5", 0, false},
		{"Inf", 0, false},
		{"notes", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseYear(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
