package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/jobs"
	"parly-backend/lib/checkpoint"
	"parly-backend/lib/fetch"
	"parly-backend/lib/restyutil"
	"parly-backend/lib/serviceutil"
	libtelemetry "parly-backend/lib/telemetry"
	"parly-backend/pkg/migrations"
	"path/filepath"

	"github.com/spf13/cobra"
)

// app is filled in before any subcommand runs.
type app struct {
	config    Config
	db        *sql.DB
	tel       telemetry.API
	env       jobs.Env
	telemetry libtelemetry.Telemetry
}

var current *app

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "parly",
	Short: "parly ingests Canadian parliamentary data from ourcommons.ca and LEGISinfo.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(verbose)
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		return current.close(context.Background())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output and dump http traffic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configFile, "path to the json5 config file")
}

func setup(ctx context.Context) (*app, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	t, err := libtelemetry.SetupFromEnv(ctx, "parly")
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	database, err := config.Database.OpenDB()
	if err != nil {
		return nil, err
	}
	err = migrations.Apply(ctx, database, db.Schema, db.SchemaVersion)
	if err != nil {
		database.Close()
		return nil, err
	}

	tel := telemetry.SlogAPI{}
	opts := fetch.Options{
		MaxRetries:        config.MaxRetries,
		Timeout:           config.timeout(),
		UserAgent:         config.UserAgent,
		RequestsPerSecond: config.RequestsPerSecond,
	}
	if verbose && config.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(config.DumpDir)
		if err != nil {
			database.Close()
			return nil, err
		}
		opts.InstrumentOutput = output
	}

	return &app{
		config: config,
		db:     database,
		tel:    tel,
		env: jobs.Env{
			Fetcher: fetch.NewClient(tel, opts),
			Tel:     tel,
		},
		telemetry: t,
	}, nil
}

func (a *app) close(ctx context.Context) error {
	dbErr := a.db.Close()
	telErr := a.telemetry.Shutdown(ctx)
	if dbErr != nil {
		return dbErr
	}
	return telErr
}

// checkpoints returns the checkpoint store of a job.
func (a *app) checkpoints(job string) checkpoint.Store {
	if a.config.CheckpointStore == "db" {
		return checkpoint.NewDBStore(a.db, job)
	}
	return checkpoint.NewFileStore(filepath.Join(a.config.CheckpointDir, job+".checkpoint"))
}

func Execute() {
	ctx := serviceutil.SignalContext()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		serviceutil.Fatal("parly failed", err)
	}
}
