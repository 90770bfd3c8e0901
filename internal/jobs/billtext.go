package jobs

import (
	"context"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
)

const BillTextJobName = "bill-text"

const (
	report_bill_text_parse = "bill_text.parse"
)

// billDetails is the set of fields both bill-text and fill-bills complete.
type billDetails struct {
	Summary          string
	SponsorName      string
	BillType         string
	IntroductionDate string
}

// fillBillDetails writes the fields of `found` the bill is missing, existing
// values are never overwritten. It reports whether anything was written.
func fillBillDetails(ctx context.Context, q *db.Queries, bill db.Bill, found billDetails) (bool, error) {
	params := db.UpdateBillDetailsParams{
		Summary:          bill.Summary,
		SponsorName:      bill.SponsorName,
		BillType:         bill.BillType,
		IntroductionDate: bill.IntroductionDate,
		BillID:           bill.BillID,
	}
	changed := false
	fill := func(dst *string, value string) {
		if *dst == "" && value != "" {
			*dst = value
			changed = true
		}
	}
	fill(&params.Summary, found.Summary)
	fill(&params.SponsorName, found.SponsorName)
	fill(&params.BillType, found.BillType)
	fill(&params.IntroductionDate, found.IntroductionDate)
	if !changed {
		return false, nil
	}
	return true, q.UpdateBillDetails(ctx, params)
}

// BillTextJob completes bills from their published first reading text.
type BillTextJob struct {
	env Env
	tel telemetry.API
}

func NewBillTextJob(env Env) *BillTextJob {
	env = env.withDefaults()
	return &BillTextJob{env: env, tel: telemetry.NewScopedAPI(BillTextJobName, env.Tel)}
}

func (j *BillTextJob) Name() string {
	return BillTextJobName
}

func (j *BillTextJob) Entities(ctx context.Context, q *db.Queries) ([]db.Bill, error) {
	return q.ListBillsMissingDetails(ctx)
}

func (j *BillTextJob) ID(b db.Bill) int64 {
	return b.BillID
}

// AscendingIDs is true, filled bills drop out of the list.
func (j *BillTextJob) AscendingIDs() bool {
	return true
}

func (j *BillTextJob) Fetch(ctx context.Context, bill db.Bill) (pipeline.Result, error) {
	session, number, err := billSession(bill)
	if err != nil {
		return pipeline.Result{}, err
	}
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.BillTextUrl(session, number))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	doc, ok := parse.ParseBillDocument(j.tel, body)
	if !ok {
		j.tel.ReportWarning(report_bill_text_parse, bill.BillID, bill.BillNumber)
		return pipeline.Result{}, nil
	}
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			changed, err := fillBillDetails(ctx, q, bill, billDetails{
				Summary:          doc.Summary,
				SponsorName:      doc.Sponsor,
				BillType:         doc.BillType,
				IntroductionDate: parse.FormatDate(doc.IntroductionDate),
			})
			if err != nil {
				return pipeline.Counts{}, err
			}
			if changed {
				return pipeline.Counts{Fetched: 1, Updated: 1}, nil
			}
			return pipeline.Counts{Fetched: 1, Skipped: 1}, nil
		},
	}, nil
}
