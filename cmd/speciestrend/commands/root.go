package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"speciestrend/internal/config"
	"speciestrend/internal/dataset"
	"speciestrend/internal/occurrence"
	"speciestrend/internal/recorder"
	"speciestrend/internal/trend"
)

const defaultConfigPath = "configs/config.yaml"

var (
	cfgPath string
	cfg     *config.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "speciestrend",
		Short:        "Project species extinction years from population trends",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				cfgPath = defaultConfigPath
				if v := os.Getenv("SPECIESTREND_CONFIG"); v != "" {
					cfgPath = v
				}
			}
			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+defaultConfigPath+")")

	root.AddCommand(listCmd(), estimateCmd(), reportCmd(), occurrencesCmd(), watchCmd(), historyCmd())
	return root.Execute()
}

func tableOptions(layout, sheet string) *dataset.Options {
	opts := dataset.DefaultOptions()
	opts.Layout = dataset.Layout(layout)
	opts.YearColumn = cfg.Data.YearColumn
	opts.Sheet = sheet
	return opts
}

func loadPopulation() (*dataset.Table, error) {
	t, err := dataset.Load(cfg.Data.PopulationFile, tableOptions(cfg.Data.Layout, cfg.Data.Sheet))
	if err != nil {
		return nil, fmt.Errorf("population table: %w", err)
	}
	return t, nil
}

// loadCatalog returns nil when no metadata file is configured or it cannot be
// read; lookups then fall back to defaults.
func loadCatalog() *dataset.Catalog {
	if cfg.Data.SpeciesInfoFile == "" {
		return nil
	}
	c, err := dataset.LoadSpeciesInfo(cfg.Data.SpeciesInfoFile)
	if err != nil {
		log.Printf("[WARN] species info: %v", err)
		return nil
	}
	return c
}

func openRecorder() recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func occurrenceClient() *occurrence.Client {
	return occurrence.NewClient(cfg.Occurrence.BaseURL, cfg.Occurrence.Limit, cfg.OccurrenceTimeout(), cfg.Proxy)
}

func findSeries(t *dataset.Table, name string) (trend.TimeSeries, error) {
	s, ok := t.Lookup(name)
	if !ok {
		return s, fmt.Errorf("species %q not found in %s", name, cfg.Data.PopulationFile)
	}
	return s, nil
}
