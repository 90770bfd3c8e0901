package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"parly-backend/internal/components/telemetry"
	"time"

	"golang.org/x/sync/errgroup"
)

type fetched[E any] struct {
	index   int
	entity  E
	result  Result
	err     error
	started time.Time
}

// RunPool is Run with Options.Workers concurrent fetches. Results are applied
// by a single committer so the database is only touched from one goroutine.
//
// Entities complete in any order, the checkpoint is the furthest entity (in
// entity order) that has completed so far.
func RunPool[E any](ctx context.Context, tel telemetry.API, database *sql.DB, job Job[E], opts Options) (stats Stats, err error) {
	started := time.Now()
	b := newBatch(tel, database, job, opts)

	ctx, span := startSpan(ctx, "RunPool", b.stats)
	defer func() { endSpan(span, err) }()

	b.transition(StateRunning)
	entities, start, err := b.load(ctx, database)
	if err != nil {
		return b.report(started), err
	}
	b.tel.ReportDebug(
		report_run_start,
		"run_id", b.stats.RunID,
		"entities", len(entities),
		"start", start,
		"workers", b.opts.Workers,
	)

	detached := context.WithoutCancel(ctx)
	err = b.begin(detached)
	if err != nil {
		return b.report(started), err
	}

	// feeding stops on cancellation or when the committer fails
	feedCtx, stopFeeding := context.WithCancel(ctx)
	defer stopFeeding()

	work := make(chan fetched[E], b.opts.Workers)
	results := make(chan fetched[E], b.opts.Workers)

	var group errgroup.Group
	fedAll := false

	group.Go(func() error {
		defer close(work)
		for i := start; i < len(entities); i++ {
			if i > start {
				if b.opts.Sleeper.Sleep(feedCtx, b.opts.RateLimit) != nil {
					return nil
				}
			}
			select {
			case work <- fetched[E]{index: i, entity: entities[i]}:
			case <-feedCtx.Done():
				return nil
			}
		}
		fedAll = true
		return nil
	})

	var fetchers errgroup.Group
	for w := 0; w < b.opts.Workers; w++ {
		fetchers.Go(func() error {
			for item := range work {
				item.started = time.Now()
				item.result, item.err = job.Fetch(detached, item.entity)
				results <- item
			}
			return nil
		})
	}
	group.Go(func() error {
		err := fetchers.Wait()
		close(results)
		return err
	})

	group.Go(func() error {
		var commitErr error
		furthest := -1
		for item := range results {
			if commitErr != nil {
				continue
			}
			commitErr = b.apply(detached, item.entity, item.result, item.err, item.started)
			if commitErr != nil {
				stopFeeding()
				continue
			}
			if item.index > furthest {
				furthest = item.index
			}
			b.stats.LastID = job.ID(entities[furthest])
			commitErr = b.rotate(detached)
			if commitErr != nil {
				stopFeeding()
			}
		}
		return commitErr
	})

	err = group.Wait()
	if err != nil {
		b.abort()
		return b.report(started), fmt.Errorf("%s: %w", job.Name(), err)
	}

	err = b.finish(detached, !fedAll)
	if err != nil {
		b.abort()
		return b.report(started), err
	}
	return b.report(started), nil
}
