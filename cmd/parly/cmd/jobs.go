package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"parly-backend/cmd/parly/utils"
	"parly-backend/internal/jobs"
	"parly-backend/internal/pipeline"

	"github.com/spf13/cobra"
)

type runFlags struct {
	batchSize int
	workers   int
	reset     bool
}

func (f *runFlags) register(cmd *cobra.Command, pool bool) {
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "entities per transaction (default from config)")
	cmd.Flags().BoolVar(&f.reset, "reset", false, "clear the job's checkpoint and start from the first entity")
	if pool {
		cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent fetches (default from config)")
	}
}

func (a *app) options(job string, flags runFlags) pipeline.Options {
	opts := pipeline.Options{
		BatchSize:   a.config.BatchSize,
		RateLimit:   a.config.rateLimit(),
		Workers:     a.config.Workers,
		Checkpoints: a.checkpoints(job),
		OnTransition: func(from, to pipeline.State) {
			slog.Debug("pipeline state", "job", job, "from", from.String(), "to", to.String())
		},
	}
	if flags.batchSize > 0 {
		opts.BatchSize = flags.batchSize
	}
	if flags.workers > 0 {
		opts.Workers = flags.workers
	}
	return opts
}

func (a *app) run(ctx context.Context, def jobs.Definition, flags runFlags) (pipeline.Stats, error) {
	opts := a.options(def.Name, flags)
	if flags.reset {
		err := opts.Checkpoints.Clear(ctx)
		if err != nil {
			return pipeline.Stats{}, fmt.Errorf("reset checkpoint: %w", err)
		}
	}
	stats, err := def.Run(ctx, a.env, a.db, opts)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", def.Name, err)
	}
	slog.Info("job finished", "stats", stats)
	return stats, nil
}

func jobCommand(def jobs.Definition) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   def.Name,
		Short: def.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := current.run(cmd.Context(), def, flags)
			if err != nil {
				return err
			}
			utils.RenderStats(stats)
			return nil
		},
	}
	flags.register(cmd, def.Pool)
	return cmd
}

// membersCommand runs either the xml search listing or the html list.
func membersCommand(xml, html jobs.Definition) *cobra.Command {
	var flags runFlags
	var useHtml bool
	cmd := &cobra.Command{
		Use:   xml.Name,
		Short: xml.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def := xml
			if useHtml {
				def = html
			}
			stats, err := current.run(cmd.Context(), def, flags)
			if err != nil {
				return err
			}
			utils.RenderStats(stats)
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().BoolVar(&useHtml, "html", false, "read the legacy html member list instead")
	return cmd
}

var ingestFlags runFlags

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run every job in order, stopping after the first interrupted one.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var all []pipeline.Stats
		defer func() { utils.RenderStats(all...) }()

		for _, def := range jobs.Definitions() {
			if def.Name == jobs.MembersHtmlJobName {
				continue
			}
			stats, err := current.run(cmd.Context(), def, ingestFlags)
			all = append(all, stats)
			if err != nil {
				return err
			}
			if stats.Interrupted {
				return nil
			}
		}
		return nil
	},
}

func init() {
	defs := map[string]jobs.Definition{}
	for _, def := range jobs.Definitions() {
		defs[def.Name] = def
	}
	for _, def := range jobs.Definitions() {
		switch def.Name {
		case jobs.MembersJobName:
			rootCmd.AddCommand(membersCommand(def, defs[jobs.MembersHtmlJobName]))
		case jobs.MembersHtmlJobName:
		default:
			rootCmd.AddCommand(jobCommand(def))
		}
	}

	ingestFlags.register(ingestCmd, true)
	rootCmd.AddCommand(ingestCmd)
}
