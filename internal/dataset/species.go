package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Defaults for species metadata fields that are empty or absent.
const (
	DefaultUnknown      = "Unknown"
	DefaultImage        = "img/default.jpg"
	DefaultNotSpecified = "Not specified"
)

// SpeciesInfo is descriptive metadata about a monitored species.
type SpeciesInfo struct {
	Name               string
	ScientificName     string
	Status             string
	Image              string
	RecommendedActions string
	Organizations      string
	Threats            string
}

// infoColumns maps CSV headers to fields. Both the Spanish headers of the
// published dataset and English ones are accepted.
var infoColumns = map[string]func(*SpeciesInfo, string){
	"nombre":                func(s *SpeciesInfo, v string) { s.Name = v },
	"name":                  func(s *SpeciesInfo, v string) { s.Name = v },
	"nombre_cientifico":     func(s *SpeciesInfo, v string) { s.ScientificName = v },
	"scientific_name":       func(s *SpeciesInfo, v string) { s.ScientificName = v },
	"estado":                func(s *SpeciesInfo, v string) { s.Status = v },
	"status":                func(s *SpeciesInfo, v string) { s.Status = v },
	"imagen":                func(s *SpeciesInfo, v string) { s.Image = v },
	"image":                 func(s *SpeciesInfo, v string) { s.Image = v },
	"acciones_recomendadas": func(s *SpeciesInfo, v string) { s.RecommendedActions = v },
	"recommended_actions":   func(s *SpeciesInfo, v string) { s.RecommendedActions = v },
	"organizaciones":        func(s *SpeciesInfo, v string) { s.Organizations = v },
	"organizations":         func(s *SpeciesInfo, v string) { s.Organizations = v },
	"amenazas":              func(s *SpeciesInfo, v string) { s.Threats = v },
	"threats":               func(s *SpeciesInfo, v string) { s.Threats = v },
}

// WithDefaults returns a copy of s with empty fields set to their defaults.
func (s SpeciesInfo) WithDefaults() SpeciesInfo {
	if s.ScientificName == "" {
		s.ScientificName = DefaultUnknown
	}
	if s.Status == "" {
		s.Status = DefaultUnknown
	}
	if s.Image == "" {
		s.Image = DefaultImage
	}
	if s.RecommendedActions == "" {
		s.RecommendedActions = DefaultNotSpecified
	}
	if s.Organizations == "" {
		s.Organizations = DefaultNotSpecified
	}
	if s.Threats == "" {
		s.Threats = DefaultNotSpecified
	}
	return s
}

// Catalog indexes species metadata by name.
type Catalog struct {
	Species []SpeciesInfo
	byName  map[string]int
}

// NewCatalog builds a catalog; later entries with a duplicate name are ignored.
func NewCatalog(species ...SpeciesInfo) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(species))}
	for _, s := range species {
		if _, dup := c.byName[s.Name]; dup {
			continue
		}
		c.byName[s.Name] = len(c.Species)
		c.Species = append(c.Species, s.WithDefaults())
	}
	return c
}

// Lookup returns the metadata for name. When name is unknown, the returned
// record carries only the name and defaults.
func (c *Catalog) Lookup(name string) (SpeciesInfo, bool) {
	if c != nil {
		if i, ok := c.byName[name]; ok {
			return c.Species[i], true
		}
	}
	return SpeciesInfo{Name: name}.WithDefaults(), false
}

// LoadSpeciesInfo reads species metadata from a CSV file.
func LoadSpeciesInfo(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := ReadSpeciesInfo(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// ReadSpeciesInfo reads species metadata CSV from r. Rows without a name are
// skipped.
func ReadSpeciesInfo(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	setters := make([]func(*SpeciesInfo, string), len(header))
	hasName := false
	for i, h := range header {
		key := cleanCell(h)
		setters[i] = infoColumns[key]
		if key == "nombre" || key == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("no name column in header %v", header)
	}

	var species []SpeciesInfo
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		var s SpeciesInfo
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&s, cleanCell(v))
			}
		}
		if s.Name == "" {
			continue
		}
		species = append(species, s)
	}
	return NewCatalog(species...), nil
}
