package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"speciestrend/internal/recorder"
	"speciestrend/internal/report"
)

// report: write the batch report for every species.
func reportCmd() *cobra.Command {
	var (
		outputDir     string
		referenceYear int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the workbook, charts and Markdown report for all species",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir != "" {
				cfg.Report.OutputDir = outputDir
			}
			if referenceYear != 0 {
				cfg.Report.ReferenceYear = referenceYear
			}

			table, err := loadPopulation()
			if err != nil {
				return err
			}
			rec := openRecorder()
			defer rec.Close()

			res, err := newGenerator(rec).Generate(table)
			if err != nil {
				return err
			}
			fmt.Printf("📁 %d species written to %s\n", len(res.Models), cfg.Report.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides report.output_dir)")
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "year risk is measured from (default: current year)")
	return cmd
}

func newGenerator(rec recorder.Recorder) *report.Generator {
	return report.NewGenerator(report.Options{
		OutputDir:       cfg.Report.OutputDir,
		ReferenceYear:   cfg.Report.ReferenceYear,
		CriticalHorizon: cfg.Report.CriticalHorizon,
		Workers:         cfg.Report.Workers,
		Source:          cfg.Data.PopulationFile,
		Catalog:         loadCatalog(),
		Recorder:        rec,
	})
}
