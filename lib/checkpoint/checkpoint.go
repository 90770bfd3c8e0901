// Package checkpoint records the last fully processed entity of an ingestion job
// so that an interrupted run can resume where it left off.
package checkpoint

import (
	"context"
	"sort"
	"time"
)

type Checkpoint struct {
	ID      int64
	SavedAt time.Time
}

// Store persists a single checkpoint. Load never fails because of missing or
// corrupt state, that is reported as ok == false.
type Store interface {
	Save(ctx context.Context, id int64) error
	Load(ctx context.Context) (cp Checkpoint, ok bool, err error)
	Clear(ctx context.Context) error
}

// StartIndex returns the index processing should resume at given the job's ordered
// entity ids: the entity after the checkpointed one, or 0 when there is no checkpoint
// or the checkpointed id is no longer in the list.
func StartIndex(ids []int64, cp Checkpoint, ok bool) int {
	if !ok {
		return 0
	}
	for i, id := range ids {
		if id == cp.ID {
			return i + 1
		}
	}
	return 0
}

// StartIndexAfter is StartIndex for ids sorted ascending whose list shrinks
// between runs: it resumes at the first id past the checkpoint whether or not
// the checkpointed id is still listed.
func StartIndexAfter(ids []int64, cp Checkpoint, ok bool) int {
	if !ok {
		return 0
	}
	return sort.Search(len(ids), func(i int) bool {
		return ids[i] > cp.ID
	})
}
