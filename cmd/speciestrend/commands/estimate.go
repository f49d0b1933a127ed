package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"speciestrend/internal/dataset"
	"speciestrend/internal/trend"
)

// estimate <species>: fit the trend and print the projected extinction year.
func estimateCmd() *cobra.Command {
	var (
		chartPath string
		pooled    bool
	)
	cmd := &cobra.Command{
		Use:   "estimate <species>",
		Short: "Estimate the extinction year of one species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadPopulation()
			if err != nil {
				return err
			}
			series, err := findSeries(table, args[0])
			if err != nil {
				return err
			}

			var est trend.Estimate
			if pooled {
				if est, err = pooledEstimate(series); err != nil {
					return err
				}
			} else {
				est = trend.FitAndEstimate(series)
			}

			info, _ := loadCatalog().Lookup(series.Name)
			fmt.Printf("Species:      %s (%s)\n", info.Name, info.ScientificName)
			fmt.Printf("Status:       %s\n", info.Status)
			fmt.Printf("Observations: %d\n", len(series.ValidSubset()))
			if est.Fit != nil {
				fmt.Printf("Trend:        %.4f per year (intercept %.2f)\n", est.Fit.Slope, est.Fit.Intercept)
			}
			if !est.Computable() {
				fmt.Printf("Result:       %s (%v)\n", est.Outcome, est.Err())
				return nil
			}
			fmt.Printf("Extinction:   %d (crossing %.2f)\n", est.Year, est.Raw)

			if chartPath != "" {
				png, err := trend.RenderEstimate(est)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				fmt.Printf("Chart:        %s\n", chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "write the trend chart as PNG to this path")
	cmd.Flags().BoolVar(&pooled, "pooled", false, "use the slope fitted over the general model table")
	return cmd
}

// pooledEstimate applies the general model's slope to series.
func pooledEstimate(series trend.TimeSeries) (trend.Estimate, error) {
	if cfg.GeneralModel.File == "" {
		return trend.Estimate{}, fmt.Errorf("general_model.file is not configured")
	}
	general, err := dataset.Load(cfg.GeneralModel.File, tableOptions(cfg.GeneralModel.Layout, cfg.GeneralModel.Sheet))
	if err != nil {
		return trend.Estimate{}, fmt.Errorf("general model table: %w", err)
	}
	fit, outcome := trend.FitPooled(general.Series...)
	if outcome != trend.OK {
		return trend.Estimate{}, fmt.Errorf("general model: %w", outcome.Err())
	}
	fmt.Printf("General model slope: %.4f per year over %d points\n", fit.Slope, len(fit.Points))
	return trend.EstimateWithSlope(series, fit.Slope), nil
}
