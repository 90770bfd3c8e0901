package db

import "context"

const upsertCheckpoint = `INSERT INTO checkpoints (job, entity_id, saved_at) VALUES (?, ?, ?)
ON CONFLICT (job) DO UPDATE SET entity_id = excluded.entity_id, saved_at = excluded.saved_at`

func (q *Queries) UpsertCheckpoint(ctx context.Context, arg Checkpoint) error {
	_, err := q.db.ExecContext(ctx, upsertCheckpoint, arg.Job, arg.EntityID, arg.SavedAt)
	return err
}

const getCheckpoint = `SELECT job, entity_id, saved_at FROM checkpoints WHERE job = ?`

func (q *Queries) GetCheckpoint(ctx context.Context, job string) (Checkpoint, error) {
	var i Checkpoint
	err := q.db.QueryRowContext(ctx, getCheckpoint, job).Scan(&i.Job, &i.EntityID, &i.SavedAt)
	return i, err
}

const deleteCheckpoint = `DELETE FROM checkpoints WHERE job = ?`

func (q *Queries) DeleteCheckpoint(ctx context.Context, job string) error {
	_, err := q.db.ExecContext(ctx, deleteCheckpoint, job)
	return err
}

const listCheckpoints = `SELECT job, entity_id, saved_at FROM checkpoints ORDER BY job`

func (q *Queries) ListCheckpoints(ctx context.Context) ([]Checkpoint, error) {
	rows, err := q.db.QueryContext(ctx, listCheckpoints)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Checkpoint
	for rows.Next() {
		var i Checkpoint
		if err := rows.Scan(&i.Job, &i.EntityID, &i.SavedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
