package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"speciestrend/internal/occurrence"
)

// occurrences <species>: query occurrence records and summarise them by country.
func occurrencesCmd() *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "occurrences <species>",
		Short: "Look up occurrence records for a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.OccurrenceTimeout())
			defer cancel()

			records, err := occurrenceClient().Search(ctx, args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Printf("No occurrence records for %s\n", args[0])
				return nil
			}

			located := occurrence.Located(records)
			fmt.Printf("%d records, %d with coordinates\n", len(records), len(located))
			countries, counts := occurrence.Countries(records)
			for _, c := range countries {
				fmt.Printf("  %-25s %d\n", c, counts[c])
			}

			if chartPath != "" {
				png, err := occurrence.RenderMarkers(args[0], records)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, png, 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				fmt.Printf("Chart: %s\n", chartPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an occurrence scatter as PNG to this path")
	return cmd
}
