package jobs

import (
	"context"
	"fmt"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/signature"
)

const ProgressJobName = "progress"

func billSession(b db.Bill) (parliament.Session, parliament.BillNumber, error) {
	number, err := parliament.ParseBillNumber(b.BillNumber)
	if err != nil {
		return parliament.Session{}, parliament.BillNumber{}, fmt.Errorf("bill %d: %w", b.BillID, err)
	}
	return parliament.Session{Parliament: b.ParliamentNumber, Session: b.SessionNumber}, number, nil
}

// ProgressJob ingests the legislative stages of every bill and sets the
// bill's status to its latest stage.
type ProgressJob struct {
	env Env
	tel telemetry.API
}

func NewProgressJob(env Env) *ProgressJob {
	env = env.withDefaults()
	return &ProgressJob{env: env, tel: telemetry.NewScopedAPI(ProgressJobName, env.Tel)}
}

func (j *ProgressJob) Name() string {
	return ProgressJobName
}

func (j *ProgressJob) Entities(ctx context.Context, q *db.Queries) ([]db.Bill, error) {
	return q.ListBills(ctx)
}

func (j *ProgressJob) ID(b db.Bill) int64 {
	return b.BillID
}

func (j *ProgressJob) Fetch(ctx context.Context, bill db.Bill) (pipeline.Result, error) {
	session, number, err := billSession(bill)
	if err != nil {
		return pipeline.Result{}, err
	}
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.BillProgressUrl(session, number))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	stages := parse.ParseProgress(j.tel, body)
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			return j.apply(ctx, q, bill, stages)
		},
	}, nil
}

func (j *ProgressJob) apply(ctx context.Context, q *db.Queries, bill db.Bill, stages []parse.ProgressStage) (pipeline.Counts, error) {
	counts := pipeline.Counts{Fetched: len(stages)}

	stored, err := q.ListProgressKeys(ctx, bill.BillID)
	if err != nil {
		return counts, err
	}
	seen := signature.NewSet()
	for _, row := range stored {
		seen.Add(signature.StoredBillProgress(bill.BillID, row))
	}

	for _, stage := range stages {
		if !seen.Add(signature.BillProgress(bill.BillID, stage)) {
			counts.Skipped++
			continue
		}
		err = q.CreateBillProgress(ctx, db.CreateBillProgressParams{
			BillID:       bill.BillID,
			Status:       stage.Status,
			ProgressDate: parse.FormatDate(&stage.Date),
			Chamber:      stage.Chamber,
			State:        stage.State,
		})
		if err != nil {
			return counts, err
		}
		counts.Inserted++
	}

	latest, ok := parse.LatestStage(stages)
	if ok && latest.Status != bill.Status {
		err = q.UpdateBillStatus(ctx, db.UpdateBillStatusParams{Status: latest.Status, BillID: bill.BillID})
		if err != nil {
			return counts, err
		}
		counts.Updated++
	}
	return counts, nil
}
