package jobs

import (
	"context"
	"fmt"
	"os"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/lib/textutil"

	"github.com/titanous/json5"
)

const SenatorsJobName = "senators"

const (
	report_senators_skip = "senators.skip"
)

// SenatorEntry is one senator of an import file. Names may be written
// "Family, Personal", appointed_by is written like "Trudeau, Justin (Lib.)".
type SenatorEntry struct {
	Name           string `json:"name"`
	Affiliation    string `json:"affiliation"`
	Province       string `json:"province"`
	NominationDate string `json:"nomination_date"`
	RetirementDate string `json:"retirement_date"`
	AppointedBy    string `json:"appointed_by"`
}

func storageDate(tel telemetry.API, name, value string) string {
	if value == "" {
		return ""
	}
	t, err := parse.ParseDate(value)
	if err != nil {
		tel.ReportWarning(report_senators_skip, name, err)
		return ""
	}
	return parse.FormatDate(&t)
}

func (e SenatorEntry) params(tel telemetry.API) db.UpsertSenatorParams {
	name := textutil.FlipLastFirst(e.Name)
	return db.UpsertSenatorParams{
		Name:           name,
		Affiliation:    textutil.CollapseSpace(e.Affiliation),
		Province:       textutil.CollapseSpace(e.Province),
		NominationDate: storageDate(tel, name, e.NominationDate),
		RetirementDate: storageDate(tel, name, e.RetirementDate),
		AppointedBy:    textutil.FlipLastFirst(e.AppointedBy),
	}
}

// SenatorsJob imports senators from a json5 file, it has a single entity.
type SenatorsJob struct {
	path string
	tel  telemetry.API
}

func NewSenatorsJob(env Env, path string) *SenatorsJob {
	env = env.withDefaults()
	return &SenatorsJob{path: path, tel: telemetry.NewScopedAPI(SenatorsJobName, env.Tel)}
}

func (j *SenatorsJob) Name() string {
	return SenatorsJobName
}

func (j *SenatorsJob) Entities(ctx context.Context, q *db.Queries) ([]int64, error) {
	return []int64{1}, nil
}

func (j *SenatorsJob) ID(file int64) int64 {
	return file
}

func (j *SenatorsJob) Fetch(ctx context.Context, _ int64) (pipeline.Result, error) {
	contents, err := os.ReadFile(j.path)
	if err != nil {
		return pipeline.Result{}, err
	}
	var entries []SenatorEntry
	err = json5.Unmarshal(contents, &entries)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("parse %s: %w", j.path, err)
	}

	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			counts := pipeline.Counts{Fetched: len(entries)}

			stored, err := q.ListSenators(ctx)
			if err != nil {
				return counts, err
			}
			existing := make(map[string]db.UpsertSenatorParams, len(stored))
			for _, s := range stored {
				existing[s.Name] = db.UpsertSenatorParams{
					Name:           s.Name,
					Affiliation:    s.Affiliation,
					Province:       s.Province,
					NominationDate: s.NominationDate,
					RetirementDate: s.RetirementDate,
					AppointedBy:    s.AppointedBy,
				}
			}

			for _, entry := range entries {
				params := entry.params(j.tel)
				if params.Name == "" {
					j.tel.ReportWarning(report_senators_skip, "missing name")
					counts.Skipped++
					continue
				}
				previous, known := existing[params.Name]
				if known && previous == params {
					counts.Skipped++
					continue
				}
				err = q.UpsertSenator(ctx, params)
				if err != nil {
					return counts, err
				}
				existing[params.Name] = params
				if known {
					counts.Updated++
				} else {
					counts.Inserted++
				}
			}
			return counts, nil
		},
	}, nil
}
