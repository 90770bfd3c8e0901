package cmd

import (
	"fmt"
	"parly-backend/cmd/parly/utils"
	"parly-backend/internal/db"
	"parly-backend/internal/jobs"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts, bills per chamber and the saved checkpoints.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		q := db.New(current.db)

		counts, err := q.GetTableCounts(ctx)
		if err != nil {
			return fmt.Errorf("count rows: %w", err)
		}
		t := utils.NewTable()
		t.AppendHeader(table.Row{"Table", "Rows"})
		t.AppendRows([]table.Row{
			{"members", counts.Members},
			{"roles", counts.Roles},
			{"votes", counts.Votes},
			{"vote_participants", counts.VoteParticipants},
			{"bills", counts.Bills},
			{"bill_progress", counts.BillProgress},
			{"senators", counts.Senators},
		})
		t.Render()

		chambers, err := q.CountBillsByChamber(ctx)
		if err != nil {
			return fmt.Errorf("count bills: %w", err)
		}
		t = utils.NewTable()
		t.AppendHeader(table.Row{"Chamber", "Bills"})
		for _, row := range chambers {
			chamber := row.Chamber
			if chamber == "" {
				chamber = "(unknown)"
			}
			t.AppendRow(table.Row{chamber, row.Count})
		}
		t.Render()

		t = utils.NewTable()
		t.AppendHeader(table.Row{"Job", "Last entity", "Saved at"})
		for _, def := range jobs.Definitions() {
			cp, ok, err := current.checkpoints(def.Name).Load(ctx)
			if err != nil {
				return fmt.Errorf("load %s checkpoint: %w", def.Name, err)
			}
			if !ok {
				t.AppendRow(table.Row{def.Name, "-", "-"})
				continue
			}
			t.AppendRow(table.Row{def.Name, cp.ID, cp.SavedAt.Local().Format(time.DateTime)})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
