package dataset

import (
	"strings"
	"testing"
)

func TestReadSpeciesInfo(t *testing.T) {
	csvData := `nombre,nombre_cientifico,estado,imagen,acciones_recomendadas,organizaciones,amenazas,poblacion
Jaguar,Panthera onca,Casi amenazado,img/jaguar.jpg,Corredores biológicos,WWF,Deforestación,64000
Vaquita,Phocoena sinus,,,,,,10
,Sin nombre,x,x,x,x,x,1
Jaguar,Duplicate,x,x,x,x,x,1`

	catalog, err := ReadSpeciesInfo(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read species info: %v", err)
	}
	if len(catalog.Species) != 2 {
		t.Fatalf("expected 2 species, got %d", len(catalog.Species))
	}

	jaguar, ok := catalog.Lookup("Jaguar")
	if !ok {
		t.Fatal("Jaguar not found")
	}
	if jaguar.ScientificName != "Panthera onca" {
		t.Errorf("expected first Jaguar row to win, got %q", jaguar.ScientificName)
	}
	if jaguar.Threats != "Deforestación" {
		t.Errorf("unexpected threats %q", jaguar.Threats)
	}

	vaquita, _ := catalog.Lookup("Vaquita")
	if vaquita.Status != DefaultUnknown {
		t.Errorf("expected default status, got %q", vaquita.Status)
	}
	if vaquita.Image != DefaultImage {
		t.Errorf("expected default image, got %q", vaquita.Image)
	}
	if vaquita.Organizations != DefaultNotSpecified {
		t.Errorf("expected default organizations, got %q", vaquita.Organizations)
	}
}

func TestCatalogLookup_Unknown(t *testing.T) {
	var catalog *Catalog
	info, ok := catalog.Lookup("Lince ibérico")
	if ok {
		t.Error("expected lookup on a nil catalog to miss")
	}
	if info.Name != "Lince ibérico" || info.ScientificName != DefaultUnknown {
		t.Errorf("unexpected fallback record %+v", info)
	}
}

func TestReadSpeciesInfo_NoNameColumn(t *testing.T) {
	if _, err := ReadSpeciesInfo(strings.NewReader("estado,imagen\nx,y\n")); err == nil {
		t.Error("expected error when the name column is missing")
	}
}

func TestReadSpeciesInfo_ByteOrderMark(t *testing.T) {
	csvData := "\ufeffnombre,estado\nVaquita,En peligro crítico\n"

	catalog, err := ReadSpeciesInfo(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read species info with a byte order mark: %v", err)
	}
	vaquita, ok := catalog.Lookup("Vaquita")
	if !ok {
		t.Fatal("Vaquita not found")
	}
	if vaquita.Status != "En peligro crítico" {
		t.Errorf("unexpected status %q", vaquita.Status)
	}
}
