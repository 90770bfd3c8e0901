package db

import (
	"context"
	"fmt"
)

// Savepoint names are generated by callers, never taken from input.

func (q *Queries) Savepoint(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, fmt.Sprintf("SAVEPOINT %s", name))
	return err
}

// RollbackToSavepoint undoes everything since the savepoint and releases it.
func (q *Queries) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %s", name))
	if err != nil {
		return err
	}
	return q.ReleaseSavepoint(ctx, name)
}

func (q *Queries) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, fmt.Sprintf("RELEASE SAVEPOINT %s", name))
	return err
}
