package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/lib/checkpoint"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_run_checkpoint = "run.checkpoint"
	report_entity_fetch   = "entity.fetch"
	report_entity_apply   = "entity.apply"
	report_run_finish     = "run finished"
	report_run_start      = "run started"
)

const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeNotFound = "not_found"
)

const entitySavepoint = "entity"

// batch owns the state shared by Run and RunPool: the open transaction, the
// current state and the stats. It is only ever used from one goroutine.
type batch[E any] struct {
	job     Job[E]
	opts    Options
	tel     telemetry.API
	makeTx  db.MakeTx
	state   State
	stats   Stats
	pending int

	tx      *db.Queries
	discard func() error
	commit  func() error
}

func newBatch[E any](tel telemetry.API, database *sql.DB, job Job[E], opts Options) *batch[E] {
	return &batch[E]{
		job:    job,
		opts:   opts.withDefaults(),
		tel:    telemetry.NewScopedAPI(job.Name(), tel),
		makeTx: db.NewMakeTx(database),
		stats: Stats{
			RunID: uuid.NewString(),
			Job:   job.Name(),
		},
	}
}

func (b *batch[E]) transition(to State) {
	from := b.state
	b.state = to
	b.tel.ReportDebug("state", "from", from.String(), "to", to.String())
	if b.opts.OnTransition != nil {
		b.opts.OnTransition(from, to)
	}
}

// load returns the job's entities and the index to start at.
func (b *batch[E]) load(ctx context.Context, database *sql.DB) ([]E, int, error) {
	entities, err := b.job.Entities(ctx, db.New(database))
	if err != nil {
		return nil, 0, fmt.Errorf("load %s entities: %w", b.job.Name(), err)
	}

	cp, ok, err := b.opts.Checkpoints.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s checkpoint: %w", b.job.Name(), err)
	}
	ids := make([]int64, len(entities))
	for i, e := range entities {
		ids[i] = b.job.ID(e)
	}
	ascending := false
	if a, isAscending := b.job.(Ascending); isAscending {
		ascending = a.AscendingIDs()
	}
	var start int
	if ascending {
		start = checkpoint.StartIndexAfter(ids, cp, ok)
	} else {
		start = checkpoint.StartIndex(ids, cp, ok)
	}
	if ok && start == 0 && !ascending {
		b.tel.ReportWarning(report_run_checkpoint, cp.ID, "checkpointed id is no longer listed, starting over")
	}
	if ok && (start > 0 || ascending) {
		b.tel.ReportDebug("resuming", "after", cp.ID, "remaining", len(entities)-start)
	}
	return entities, start, nil
}

func (b *batch[E]) begin(ctx context.Context) error {
	tx, discard, commit, err := b.makeTx(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	b.tx = tx
	b.discard = discard
	b.commit = commit
	b.pending = 0
	return nil
}

// abort discards the open batch, used when the run fails fatally.
func (b *batch[E]) abort() {
	if b.discard != nil {
		b.discard()
	}
	b.tx = nil
	b.discard = nil
	b.commit = nil
}

// flush commits the open batch and checkpoints the last written entity.
func (b *batch[E]) flush(ctx context.Context) error {
	err := b.commit()
	b.tx = nil
	b.discard = nil
	b.commit = nil
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	if b.stats.LastID == 0 {
		return nil
	}
	err = b.opts.Checkpoints.Save(ctx, b.stats.LastID)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// apply writes one fetched entity inside its own savepoint. Only savepoint
// bookkeeping failures are returned, a failing Apply is counted and rolled back.
func (b *batch[E]) apply(ctx context.Context, entity E, res Result, fetchErr error, started time.Time) error {
	id := b.job.ID(entity)
	outcome := outcomeOK
	var counts Counts

	switch {
	case fetchErr != nil:
		b.tel.ReportWarning(report_entity_fetch, id, fetchErr)
		b.stats.Errors++
		outcome = outcomeError
	case res.NotFound:
		b.tel.ReportDebug("not found", "id", id)
		b.stats.NotFound++
		outcome = outcomeNotFound
	case res.Apply != nil:
		err := b.tx.Savepoint(ctx, entitySavepoint)
		if err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		counts, err = res.Apply(ctx, b.tx)
		if err != nil {
			b.tel.ReportWarning(report_entity_apply, id, err)
			b.stats.Errors++
			outcome = outcomeError
			counts = Counts{}
			rollbackErr := b.tx.RollbackToSavepoint(ctx, entitySavepoint)
			if rollbackErr != nil {
				return fmt.Errorf("rollback to savepoint: %w", rollbackErr)
			}
			break
		}
		err = b.tx.ReleaseSavepoint(ctx, entitySavepoint)
		if err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
		b.stats.add(counts)
	}

	b.stats.Processed++
	b.stats.LastID = id
	b.pending++
	recordEntity(ctx, b.job.Name(), counts, outcome, time.Since(started).Seconds())
	return nil
}

// rotate commits and reopens the batch once it holds BatchSize entities.
func (b *batch[E]) rotate(ctx context.Context) error {
	if b.pending < b.opts.BatchSize {
		return nil
	}
	b.transition(StateCommitting)
	err := b.flush(ctx)
	if err != nil {
		return err
	}
	err = b.begin(ctx)
	if err != nil {
		return err
	}
	b.transition(StateRunning)
	return nil
}

// finish closes the run: the open batch is committed and checkpointed, the
// checkpoint is cleared when every entity was processed.
func (b *batch[E]) finish(ctx context.Context, interrupted bool) error {
	b.stats.Interrupted = interrupted
	if interrupted {
		b.transition(StateShuttingDown)
	} else {
		b.transition(StateCommitting)
	}
	err := b.flush(ctx)
	if err != nil {
		return err
	}
	b.transition(StateDone)
	if !interrupted {
		err = b.opts.Checkpoints.Clear(ctx)
		if err != nil {
			return fmt.Errorf("clear checkpoint: %w", err)
		}
	}
	return nil
}

func (b *batch[E]) report(started time.Time) Stats {
	b.stats.Elapsed = time.Since(started)
	b.tel.ReportDebug(report_run_finish, "stats", b.stats)
	b.tel.ReportCount("processed", int64(b.stats.Processed))
	if b.stats.Errors > 0 {
		b.tel.ReportCount("errors", int64(b.stats.Errors))
	}
	return b.stats
}

func startSpan(ctx context.Context, kind string, stats Stats) (context.Context, trace.Span) {
	return tracer.Start(ctx, kind, trace.WithAttributes(
		attribute.String("job", stats.Job),
		attribute.String("run_id", stats.RunID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Run processes the job's entities one at a time, starting after the saved
// checkpoint.
//
// Once ctx is cancelled the entity in flight still completes, its batch is
// committed and checkpointed and Run returns with Stats.Interrupted set and
// a nil error. The returned error is only non-nil when the run could not
// continue at all (entities or checkpoint could not be loaded, a batch could
// not begin or commit).
func Run[E any](ctx context.Context, tel telemetry.API, database *sql.DB, job Job[E], opts Options) (stats Stats, err error) {
	started := time.Now()
	b := newBatch(tel, database, job, opts)

	ctx, span := startSpan(ctx, "Run", b.stats)
	defer func() { endSpan(span, err) }()

	b.transition(StateRunning)
	entities, start, err := b.load(ctx, database)
	if err != nil {
		return b.report(started), err
	}
	b.tel.ReportDebug(report_run_start, "run_id", b.stats.RunID, "entities", len(entities), "start", start)

	// the batch and the entity in flight outlive a cancelled ctx
	detached := context.WithoutCancel(ctx)

	err = b.begin(detached)
	if err != nil {
		return b.report(started), err
	}

	interrupted := false
	for i := start; i < len(entities); i++ {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		entityStarted := time.Now()
		res, fetchErr := job.Fetch(detached, entities[i])
		err = b.apply(detached, entities[i], res, fetchErr, entityStarted)
		if err != nil {
			b.abort()
			return b.report(started), fmt.Errorf("%s entity %d: %w", job.Name(), job.ID(entities[i]), err)
		}
		err = b.rotate(detached)
		if err != nil {
			b.abort()
			return b.report(started), err
		}

		if i == len(entities)-1 {
			break
		}
		if b.opts.Sleeper.Sleep(ctx, b.opts.RateLimit) != nil {
			interrupted = true
			break
		}
	}

	err = b.finish(detached, interrupted)
	if err != nil {
		b.abort()
		return b.report(started), err
	}
	return b.report(started), nil
}
