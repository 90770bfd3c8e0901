package jobs

import (
	"context"
	"database/sql"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/sponsor"
)

const FillBillsJobName = "fill-bills"

// sponsors links a sponsor name to a senator or a member.
type sponsors struct {
	tel      telemetry.API
	senators sponsor.Directory
	members  sponsor.Directory
}

func loadSponsors(ctx context.Context, tel telemetry.API, q *db.Queries) (sponsors, error) {
	senators, err := q.ListSenators(ctx)
	if err != nil {
		return sponsors{}, err
	}
	members, err := q.ListMembers(ctx)
	if err != nil {
		return sponsors{}, err
	}
	return sponsors{
		tel:      tel,
		senators: sponsor.NewSenators(senators),
		members:  sponsor.NewMembers(members),
	}, nil
}

// resolve returns (member id, senator id), at most one of them is valid.
func (s sponsors) resolve(raw string) (sql.NullInt64, sql.NullInt64) {
	if raw == "" {
		return sql.NullInt64{}, sql.NullInt64{}
	}
	if sponsor.IsSenator(raw) {
		match, ok := s.senators.Resolve(raw)
		if !ok {
			s.tel.ReportWarning(report_sponsor_unresolved, raw)
			return sql.NullInt64{}, sql.NullInt64{}
		}
		return sql.NullInt64{}, nullInt(match.ID)
	}
	match, ok := s.members.Resolve(raw)
	if !ok {
		s.tel.ReportDebug("sponsor is not a known member", "raw", raw)
		return sql.NullInt64{}, sql.NullInt64{}
	}
	return nullInt(match.ID), sql.NullInt64{}
}

// FillBillsJob completes bills from LEGISinfo's bill json, it runs with
// concurrent workers.
type FillBillsJob struct {
	env      Env
	tel      telemetry.API
	sponsors sponsors
}

func NewFillBillsJob(env Env) *FillBillsJob {
	env = env.withDefaults()
	return &FillBillsJob{env: env, tel: telemetry.NewScopedAPI(FillBillsJobName, env.Tel)}
}

func (j *FillBillsJob) Name() string {
	return FillBillsJobName
}

func (j *FillBillsJob) Entities(ctx context.Context, q *db.Queries) ([]db.Bill, error) {
	var err error
	j.sponsors, err = loadSponsors(ctx, j.tel, q)
	if err != nil {
		return nil, err
	}
	return q.ListBillsMissingDetails(ctx)
}

func (j *FillBillsJob) ID(b db.Bill) int64 {
	return b.BillID
}

// AscendingIDs is true, filled bills drop out of the list.
func (j *FillBillsJob) AscendingIDs() bool {
	return true
}

func (j *FillBillsJob) Fetch(ctx context.Context, bill db.Bill) (pipeline.Result, error) {
	session, number, err := billSession(bill)
	if err != nil {
		return pipeline.Result{}, err
	}
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.BillJsonUrl(session, number))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	detail, ok := parse.ParseBillDetail(j.tel, body)
	if !ok {
		return pipeline.Result{}, nil
	}
	memberID, senatorID := j.sponsors.resolve(detail.SponsorName)

	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			changed, err := fillBillDetails(ctx, q, bill, billDetails{
				SponsorName:      detail.SponsorName,
				BillType:         detail.BillType,
				IntroductionDate: parse.FormatDate(detail.IntroductionDate),
			})
			if err != nil {
				return pipeline.Counts{}, err
			}

			if !bill.SponsorID.Valid && !bill.SenatorSponsorID.Valid && (memberID.Valid || senatorID.Valid) {
				err = q.UpdateBillSponsors(ctx, db.UpdateBillSponsorsParams{
					SponsorID:        memberID,
					SenatorSponsorID: senatorID,
					BillID:           bill.BillID,
				})
				if err != nil {
					return pipeline.Counts{}, err
				}
				changed = true
			}

			if changed {
				return pipeline.Counts{Fetched: 1, Updated: 1}, nil
			}
			return pipeline.Counts{Fetched: 1, Skipped: 1}, nil
		},
	}, nil
}
