package cmd

import (
	"fmt"
	"parly-backend/cmd/parly/utils"
	"parly-backend/internal/jobs"
	"parly-backend/internal/pipeline"

	"github.com/spf13/cobra"
)

var senatorsCmd = &cobra.Command{
	Use:   "senators",
	Short: "Manage the senators sponsors are linked to.",
}

var senatorsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Upsert senators from a json5 file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := jobs.NewSenatorsJob(current.env, args[0])
		// an import is a single entity, there is nothing to resume
		stats, err := pipeline.Run[int64](cmd.Context(), current.tel, current.db, job, pipeline.Options{
			BatchSize: current.config.BatchSize,
		})
		if err != nil {
			return err
		}
		utils.RenderStats(stats)
		if stats.Errors > 0 {
			return fmt.Errorf("import %s failed, see the warnings above", args[0])
		}
		return nil
	},
}

func init() {
	senatorsCmd.AddCommand(senatorsImportCmd)
	rootCmd.AddCommand(senatorsCmd)
}
