package jobs

import (
	"context"
	"database/sql"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/signature"
	"parly-backend/internal/sponsor"
)

const (
	SponsoredBillsJobName = "sponsored-bills"
	SessionBillsJobName   = "bills"
)

const (
	report_sponsor_unresolved = "sponsor.unresolved"
)

func billParams(b parse.Bill) db.CreateBillParams {
	return db.CreateBillParams{
		LegisinfoBillID:  nullInt(b.LegisinfoID),
		BillNumber:       b.Number,
		ParliamentNumber: b.ParliamentNumber,
		SessionNumber:    b.SessionNumber,
		ShortTitle:       b.ShortTitle,
		LongTitle:        b.LongTitle,
		Status:           b.Status,
		Chamber:          b.Chamber,
		SponsorName:      b.Sponsor,
	}
}

func findBill(ctx context.Context, q *db.Queries, legisinfoID sql.NullInt64, number string, parliamentNumber, sessionNumber int64) (db.Bill, bool, error) {
	bill, err := q.FindBill(ctx, db.FindBillParams{
		LegisinfoBillID:  legisinfoID,
		BillNumber:       number,
		ParliamentNumber: parliamentNumber,
		SessionNumber:    sessionNumber,
	})
	if isNotFound(err) {
		return db.Bill{}, false, nil
	}
	if err != nil {
		return db.Bill{}, false, err
	}
	return bill, true, nil
}

// SponsoredBillsJob ingests the bills each member sponsored, they are linked
// to the member being processed.
type SponsoredBillsJob struct {
	env Env
	tel telemetry.API
}

func NewSponsoredBillsJob(env Env) *SponsoredBillsJob {
	env = env.withDefaults()
	return &SponsoredBillsJob{env: env, tel: telemetry.NewScopedAPI(SponsoredBillsJobName, env.Tel)}
}

func (j *SponsoredBillsJob) Name() string {
	return SponsoredBillsJobName
}

func (j *SponsoredBillsJob) Entities(ctx context.Context, q *db.Queries) ([]db.Member, error) {
	return q.ListMembers(ctx)
}

func (j *SponsoredBillsJob) ID(m db.Member) int64 {
	return m.MemberID
}

func (j *SponsoredBillsJob) Fetch(ctx context.Context, member db.Member) (pipeline.Result, error) {
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.SponsoredBillsUrl(member.MemberID))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	bills := parse.ParseBills(j.tel, body)
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			counts := pipeline.Counts{Fetched: len(bills)}
			seen := signature.NewBillSet()
			sponsorID := nullInt(member.MemberID)

			for _, b := range bills {
				legisinfoID := nullInt(b.LegisinfoID)
				if !seen.Add(legisinfoID, b.Number, b.ParliamentNumber, b.SessionNumber) {
					counts.Skipped++
					continue
				}

				existing, found, err := findBill(ctx, q, legisinfoID, b.Number, b.ParliamentNumber, b.SessionNumber)
				if err != nil {
					return counts, err
				}
				if !found {
					params := billParams(b)
					params.SponsorID = sponsorID
					_, err = q.CreateBill(ctx, params)
					if err != nil {
						return counts, err
					}
					counts.Inserted++
					continue
				}

				if existing.SponsorID.Valid {
					counts.Skipped++
					continue
				}
				err = q.UpdateBillSponsors(ctx, db.UpdateBillSponsorsParams{
					SponsorID:        sponsorID,
					SenatorSponsorID: existing.SenatorSponsorID,
					BillID:           existing.BillID,
				})
				if err != nil {
					return counts, err
				}
				counts.Updated++
			}
			return counts, nil
		},
	}, nil
}

// SessionBillsJob ingests every session's bill listing. Entities are sessions
// keyed by parliament*100+session. Senate sponsors are linked to senators.
type SessionBillsJob struct {
	env      Env
	tel      telemetry.API
	senators sponsor.Directory
}

func NewSessionBillsJob(env Env) *SessionBillsJob {
	env = env.withDefaults()
	return &SessionBillsJob{env: env, tel: telemetry.NewScopedAPI(SessionBillsJobName, env.Tel)}
}

func (j *SessionBillsJob) Name() string {
	return SessionBillsJobName
}

func (j *SessionBillsJob) Entities(ctx context.Context, q *db.Queries) ([]parliament.Session, error) {
	senators, err := q.ListSenators(ctx)
	if err != nil {
		return nil, err
	}
	j.senators = sponsor.NewSenators(senators)
	return parliament.Sessions, nil
}

func (j *SessionBillsJob) ID(s parliament.Session) int64 {
	return s.Key()
}

// senatorSponsor resolves a "Sen. " sponsor, anything else is left unlinked.
func (j *SessionBillsJob) senatorSponsor(raw string) sql.NullInt64 {
	if !sponsor.IsSenator(raw) {
		return sql.NullInt64{}
	}
	match, ok := j.senators.Resolve(raw)
	if !ok {
		j.tel.ReportWarning(report_sponsor_unresolved, raw)
		return sql.NullInt64{}
	}
	if match.Method == sponsor.MethodFuzzy {
		j.tel.ReportDebug("fuzzy sponsor match", "raw", raw, "senator", match.Name, "similarity", match.Similarity)
	}
	return nullInt(match.ID)
}

func (j *SessionBillsJob) Fetch(ctx context.Context, session parliament.Session) (pipeline.Result, error) {
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.SessionBillsUrl(session))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	bills := parse.ParseBills(j.tel, body)
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
				senatorID := j.senatorSponsor(b.Sponsor)

				existing, found, err := findBill(ctx, q, legisinfoID, b.Number, b.ParliamentNumber, b.SessionNumber)
				if err != nil {
					return counts, err
				}
				if !found {
					params := billParams(b)
					params.SenatorSponsorID = senatorID
					_, err = q.CreateBill(ctx, params)
					if err != nil {
						return counts, err
					}
					counts.Inserted++
					continue
				}

				changed := false
				// a bill never moves back to introduced
				if b.Status != parse.StatusIntroduced && b.Status != existing.Status {
					err = q.UpdateBillStatus(ctx, db.UpdateBillStatusParams{Status: b.Status, BillID: existing.BillID})
					if err != nil {
						return counts, err
					}
					changed = true
				}
				if senatorID.Valid && !existing.SenatorSponsorID.Valid {
					err = q.UpdateBillSponsors(ctx, db.UpdateBillSponsorsParams{
						SponsorID:        existing.SponsorID,
						SenatorSponsorID: senatorID,
						BillID:           existing.BillID,
					})
					if err != nil {
						return counts, err
					}
					changed = true
				}
				if changed {
					counts.Updated++
				} else {
					counts.Skipped++
				}
			}
			return counts, nil
		},
	}, nil
}
