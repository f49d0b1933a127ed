package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// history <species>: print recorded estimates, newest first.
func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <species>",
		Short: "Show recorded estimates for a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Database.SQLitePath == "" {
				return fmt.Errorf("no history database configured. set database.sqlite_path")
			}
			rec := openRecorder()
			defer rec.Close()

			rows, err := rec.History(args[0], limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Printf("No recorded estimates for %s\n", args[0])
				return nil
			}
			for _, r := range rows {
				year := "-"
				if r.Year != 0 {
					year = fmt.Sprintf("%d", r.Year)
				}
				fmt.Printf("%s  run %-4d %-20s %-6s %-14s slope %.4f\n",
					r.Timestamp.Format("2006-01-02 15:04"), r.RunID, r.Outcome, year, r.Risk, r.Slope)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}
