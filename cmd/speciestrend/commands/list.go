package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// list: print every species with its usable observation count.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the species in the population table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadPopulation()
			if err != nil {
				return err
			}
			for _, s := range table.Series {
				fmt.Printf("%-30s %d values\n", s.Name, len(s.ValidSubset()))
			}
			return nil
		},
	}
}
