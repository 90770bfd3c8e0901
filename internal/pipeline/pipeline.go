// Package pipeline drives ingestion jobs: it walks a job's entities, fetches
// and applies each one inside a batched transaction and checkpoints progress
// so an interrupted run resumes after the last committed entity.
package pipeline

import (
	"context"
	"fmt"
	"parly-backend/internal/components/chrono"
	"parly-backend/internal/db"
	"parly-backend/lib/checkpoint"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateCommitting
	StateShuttingDown
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateCommitting:
		return "COMMITTING"
	case StateShuttingDown:
		return "SHUTTING_DOWN"
	case StateDone:
		return "DONE"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Counts is what applying one entity did to the store.
type Counts struct {
	// Fetched is the number of records the entity's payload held.
	Fetched  int
	Inserted int
	Updated  int
	Skipped  int
}

func (c *Counts) Add(other Counts) {
	c.Fetched += other.Fetched
	c.Inserted += other.Inserted
	c.Updated += other.Updated
	c.Skipped += other.Skipped
}

// Result is a fetched and parsed entity waiting to be written.
type Result struct {
	// NotFound marks a clean 404, nothing is applied.
	NotFound bool
	// Apply writes the entity through `q`, which is scoped to the entity's
	// savepoint. A nil Apply writes nothing.
	Apply func(ctx context.Context, q *db.Queries) (Counts, error)
}

// Job is one kind of ingestion.
//
// Entities is called once before any transaction is opened. Fetch is called
// while a batch transaction may be open and must not touch the database, all
// writes go through Result.Apply. Fetch errors count against the entity only.
type Job[E any] interface {
	Name() string
	Entities(ctx context.Context, q *db.Queries) ([]E, error)
	// ID is the checkpoint identifier of an entity, entities are processed in
	// the order Entities returns them.
	ID(entity E) int64
	Fetch(ctx context.Context, entity E) (Result, error)
}

// Ascending is implemented by jobs whose entities are listed by ascending id
// from a query that drops entities once they are complete. Their runs resume
// at the first id past the checkpoint even when that entity is gone.
type Ascending interface {
	AscendingIDs() bool
}

type Options struct {
	// BatchSize is the number of entities per transaction, defaults to 20.
	BatchSize int
	// RateLimit is slept between entities regardless of their outcome.
	RateLimit time.Duration
	// Workers is used by RunPool only, defaults to 3.
	Workers int
	Sleeper chrono.Sleeper
	// Checkpoints defaults to a store that keeps nothing.
	Checkpoints checkpoint.Store
	// OnTransition is called on every state change.
	OnTransition func(from, to State)
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.Workers <= 0 {
		o.Workers = 3
	}
	if o.Sleeper == nil {
		o.Sleeper = chrono.NewStandardTime()
	}
	if o.Checkpoints == nil {
		o.Checkpoints = nopStore{}
	}
	return o
}

type nopStore struct{}

func (nopStore) Save(context.Context, int64) error { return nil }
func (nopStore) Load(context.Context) (checkpoint.Checkpoint, bool, error) {
	return checkpoint.Checkpoint{}, false, nil
}
func (nopStore) Clear(context.Context) error { return nil }
