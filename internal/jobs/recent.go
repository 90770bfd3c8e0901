package jobs

import (
	"context"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/signature"
)

const RecentJobName = "recent"

// RecentJob inserts the bills in LEGISinfo's recently introduced snapshot
// that are not stored yet. It has a single entity.
type RecentJob struct {
	env      Env
	tel      telemetry.API
	sponsors sponsors
}

func NewRecentJob(env Env) *RecentJob {
	env = env.withDefaults()
	return &RecentJob{env: env, tel: telemetry.NewScopedAPI(RecentJobName, env.Tel)}
}

func (j *RecentJob) Name() string {
	return RecentJobName
}

func (j *RecentJob) Entities(ctx context.Context, q *db.Queries) ([]int64, error) {
	var err error
	j.sponsors, err = loadSponsors(ctx, j.tel, q)
	if err != nil {
		return nil, err
	}
	return []int64{1}, nil
}

func (j *RecentJob) ID(snapshot int64) int64 {
	return snapshot
}

func (j *RecentJob) Fetch(ctx context.Context, _ int64) (pipeline.Result, error) {
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.RecentBillsUrl())
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	bills := parse.ParseRecentBills(j.tel, body)

	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			counts := pipeline.Counts{Fetched: len(bills)}
			seen := signature.NewBillSet()

			for _, b := range bills {
				legisinfoID := nullInt(b.LegisinfoID)
				if !seen.Add(legisinfoID, b.Number, b.ParliamentNumber, b.SessionNumber) {
					counts.Skipped++
					continue
				}
				_, found, err := findBill(ctx, q, legisinfoID, b.Number, b.ParliamentNumber, b.SessionNumber)
				if err != nil {
					return counts, err
				}
				if found {
					counts.Skipped++
					continue
				}

				memberID, senatorID := j.sponsors.resolve(b.SponsorName)
				_, err = q.CreateBill(ctx, db.CreateBillParams{
					LegisinfoBillID:  legisinfoID,
					BillNumber:       b.Number,
					ParliamentNumber: b.ParliamentNumber,
					SessionNumber:    b.SessionNumber,
					ShortTitle:       b.ShortTitle,
					LongTitle:        b.LongTitle,
					Status:           parse.StatusIntroduced,
					Chamber:          b.Chamber,
					SponsorID:        memberID,
					SenatorSponsorID: senatorID,
					SponsorName:      b.SponsorName,
					BillType:         b.BillType,
					IntroductionDate: parse.FormatDate(b.IntroductionDate),
				})
				if err != nil {
					return counts, err
				}
				j.tel.ReportDebug("new bill", "number", b.Number, "session", parliament.Session{
					Parliament: b.ParliamentNumber,
					Session:    b.SessionNumber,
				}.String(), "sponsor", b.SponsorName)
				counts.Inserted++
			}
			return counts, nil
		},
	}, nil
}
