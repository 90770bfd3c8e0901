package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"parly-backend/internal/db"
	"time"
)

// DBStore keeps the checkpoint of one job in the `checkpoints` table.
type DBStore struct {
	job string
	qry *db.Queries
	now func() time.Time
}

func NewDBStore(database *sql.DB, job string) DBStore {
	return DBStore{job: job, qry: db.New(database), now: time.Now}
}

func (s DBStore) Save(ctx context.Context, id int64) error {
	err := s.qry.UpsertCheckpoint(ctx, db.Checkpoint{
		Job:      s.job,
		EntityID: id,
		SavedAt:  s.now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s DBStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	row, err := s.qry.GetCheckpoint(ctx, s.job)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("load checkpoint: %w", err)
	}
	savedAt, err := time.Parse(time.RFC3339Nano, row.SavedAt)
	if err != nil {
		slog.WarnContext(ctx, "corrupt checkpoint row, starting from scratch", "job", s.job, "err", err)
		return Checkpoint{}, false, nil
	}
	return Checkpoint{ID: row.EntityID, SavedAt: savedAt}, true, nil
}

func (s DBStore) Clear(ctx context.Context) error {
	err := s.qry.DeleteCheckpoint(ctx, s.job)
	if err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}
