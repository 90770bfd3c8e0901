package pipeline

import (
	"log/slog"
	"time"
)

// Stats summarizes a run.
type Stats struct {
	RunID string
	Job   string

	Processed int
	Fetched   int
	Inserted  int
	Updated   int
	Skipped   int
	Errors    int
	NotFound  int

	// LastID is the id of the last entity written to the store, 0 if none was.
	LastID int64
	// Interrupted is set when the run stopped before exhausting its entities.
	Interrupted bool
	Elapsed     time.Duration
}

func (s *Stats) add(c Counts) {
	s.Fetched += c.Fetched
	s.Inserted += c.Inserted
	s.Updated += c.Updated
	s.Skipped += c.Skipped
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.String("job", s.Job),
		slog.Int("processed", s.Processed),
		slog.Int("fetched", s.Fetched),
		slog.Int("inserted", s.Inserted),
		slog.Int("updated", s.Updated),
		slog.Int("skipped", s.Skipped),
		slog.Int("errors", s.Errors),
		slog.Int("not_found", s.NotFound),
		slog.Int64("last_id", s.LastID),
		slog.Bool("interrupted", s.Interrupted),
		slog.Duration("elapsed", s.Elapsed),
	)
}
