package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"parly-backend/internal/components/chrono"
	"parly-backend/internal/jobs"
	libtelemetry "parly-backend/lib/telemetry"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the recent and progress jobs on their cron schedules until signalled.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		libtelemetry.InstrumentPerfStats(ctx, time.Minute)

		// runs share the database connection, one at a time
		var mutex sync.Mutex
		schedule := func(ctx context.Context, name string) func() {
			return func() {
				def, ok := jobs.Lookup(name)
				if !ok {
					return
				}
				mutex.Lock()
				defer mutex.Unlock()
				if ctx.Err() != nil {
					return
				}
				_, err := current.run(ctx, def, runFlags{})
				if err != nil {
					current.tel.ReportBroken("daemon.run", name, err)
				}
			}
		}

		cron := chrono.NewStandardCron(current.tel)
		err := cron.Cron(current.config.RecentCron, schedule(ctx, jobs.RecentJobName))
		if err != nil {
			return fmt.Errorf("schedule %s: %w", jobs.RecentJobName, err)
		}
		err = cron.Cron(current.config.ProgressCron, schedule(ctx, jobs.ProgressJobName))
		if err != nil {
			return fmt.Errorf("schedule %s: %w", jobs.ProgressJobName, err)
		}

		slog.Info("daemon started", "recent", current.config.RecentCron, "progress", current.config.ProgressCron)
		cron.Run(ctx)
		slog.Info("daemon stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
