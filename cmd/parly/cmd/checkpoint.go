package cmd

import (
	"fmt"
	"parly-backend/internal/jobs"
	"time"

	"github.com/spf13/cobra"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or clear the checkpoint of a job.",
}

func checkpointJob(name string) error {
	_, ok := jobs.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show <job>",
	Short: "Print the last entity the job committed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := checkpointJob(args[0])
		if err != nil {
			return err
		}
		cp, ok, err := current.checkpoints(args[0]).Load(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%s: no checkpoint, the next run starts from the beginning\n", args[0])
			return nil
		}
		fmt.Printf("%s: resumes after %d (saved %s)\n", args[0], cp.ID, cp.SavedAt.Local().Format(time.DateTime))
		return nil
	},
}

var checkpointClearCmd = &cobra.Command{
	Use:   "clear <job>",
	Short: "Forget the job's checkpoint.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := checkpointJob(args[0])
		if err != nil {
			return err
		}
		err = current.checkpoints(args[0]).Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s: checkpoint cleared\n", args[0])
		return nil
	},
}

func init() {
	checkpointCmd.AddCommand(checkpointShowCmd, checkpointClearCmd)
	rootCmd.AddCommand(checkpointCmd)
}
