package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"speciestrend/internal/scheduler"
)

// watch: regenerate the report on schedule.report_cron until interrupted.
func watchCmd() *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the report on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := openRecorder()
			defer rec.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, loadPopulation, newGenerator(rec))
			if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if runNow || os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] generating report on start")
				go func() {
					if _, err := sched.RunNow(); err != nil {
						log.Printf("[ERROR] report on start: %v", err)
					}
				}()
			}

			log.Println("[INFO] speciestrend is watching. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "generate a report immediately before waiting for the schedule")
	return cmd
}
