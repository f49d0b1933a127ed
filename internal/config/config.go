package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		PopulationFile  string `yaml:"population_file"`
		Layout          string `yaml:"layout"`
		YearColumn      string `yaml:"year_column"`
		Sheet           string `yaml:"sheet"`
		SpeciesInfoFile string `yaml:"species_info_file"`
	} `yaml:"data"`
	GeneralModel struct {
		File   string `yaml:"file"`
		Layout string `yaml:"layout"`
		Sheet  string `yaml:"sheet"`
	} `yaml:"general_model"`
	Occurrence struct {
		BaseURL string `yaml:"base_url"`
		Limit   int    `yaml:"limit"`
		Timeout string `yaml:"timeout"`
	} `yaml:"occurrence"`
	Report struct {
		OutputDir       string `yaml:"output_dir"`
		ReferenceYear   int    `yaml:"reference_year"`
		CriticalHorizon int    `yaml:"critical_horizon"`
		Workers         int    `yaml:"workers"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SPECIESTREND_POPULATION_FILE"); v != "" {
		cfg.Data.PopulationFile = v
	}
	if v := os.Getenv("SPECIESTREND_SPECIES_INFO"); v != "" {
		cfg.Data.SpeciesInfoFile = v
	}
	if v := os.Getenv("SPECIESTREND_OUTPUT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("SPECIESTREND_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SPECIESTREND_REPORT_CRON"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("GBIF_BASE_URL"); v != "" {
		cfg.Occurrence.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.PopulationFile == "" {
		cfg.Data.PopulationFile = "data/especies_en_peligro.csv"
	}
	if cfg.Data.Layout == "" {
		cfg.Data.Layout = "long"
	}
	if cfg.Data.YearColumn == "" {
		cfg.Data.YearColumn = "Año"
	}
	if cfg.GeneralModel.Layout == "" {
		cfg.GeneralModel.Layout = "wide"
	}
	if cfg.Occurrence.BaseURL == "" {
		cfg.Occurrence.BaseURL = "https://api.gbif.org/v1"
	}
	if cfg.Occurrence.Limit == 0 {
		cfg.Occurrence.Limit = 50
	}
	if cfg.Occurrence.Timeout == "" {
		cfg.Occurrence.Timeout = "30s"
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "out"
	}
	if cfg.Report.CriticalHorizon == 0 {
		cfg.Report.CriticalHorizon = 10
	}
	if cfg.Report.Workers == 0 {
		cfg.Report.Workers = 4
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 6 * * *"
	}

	return cfg, nil
}

// OccurrenceTimeout parses occurrence.timeout.
func (c *Config) OccurrenceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Occurrence.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Data.PopulationFile == "" {
		return fmt.Errorf("data.population_file is required")
	}
	if !validLayout(c.Data.Layout) {
		return fmt.Errorf("data.layout must be long or wide, got %q", c.Data.Layout)
	}
	if !validLayout(c.GeneralModel.Layout) {
		return fmt.Errorf("general_model.layout must be long or wide, got %q", c.GeneralModel.Layout)
	}
	if c.Occurrence.Limit < 0 || c.Occurrence.Limit > 300 {
		return fmt.Errorf("occurrence.limit must be between 1 and 300")
	}
	if _, err := time.ParseDuration(c.Occurrence.Timeout); err != nil {
		return fmt.Errorf("occurrence.timeout: %w", err)
	}
	if c.Proxy != "" {
		if u, err := url.Parse(c.Proxy); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("proxy: invalid URL %q", c.Proxy)
		}
	}
	if c.Report.CriticalHorizon < 0 {
		return fmt.Errorf("report.critical_horizon must not be negative")
	}
	if c.Report.Workers < 1 {
		return fmt.Errorf("report.workers must be positive")
	}
	return nil
}

func validLayout(l string) bool {
	return l == "long" || l == "wide"
}
