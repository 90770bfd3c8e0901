package utils

import (
	"os"
	"parly-backend/internal/pipeline"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// RenderStats prints one row per run.
func RenderStats(stats ...pipeline.Stats) {
	t := NewTable()
	t.AppendHeader(table.Row{"Job", "Processed", "Fetched", "Inserted", "Updated", "Skipped", "Not found", "Errors", "Elapsed", "Status"})
	for _, s := range stats {
		status := "done"
		if s.Interrupted {
			status = "interrupted"
		}
		t.AppendRow(table.Row{
			s.Job,
			s.Processed,
			s.Fetched,
			s.Inserted,
			s.Updated,
			s.Skipped,
			s.NotFound,
			s.Errors,
			s.Elapsed.Round(time.Millisecond).String(),
			status,
		})
	}
	t.Render()
}
