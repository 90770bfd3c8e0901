// Package jobs holds the ingestion jobs run by the pipeline: one per kind of
// record pulled from ourcommons.ca and LEGISinfo.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parly-backend/internal/components/chrono"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/lib/fetch"
	"parly-backend/lib/textutil"
	"time"
)

// Fetcher is satisfied by *fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) (fetch.Response, error)
}

// Env is what jobs share.
type Env struct {
	Fetcher Fetcher
	Tel     telemetry.API
	Time    chrono.TimeAPI
}

func (e Env) withDefaults() Env {
	if e.Tel == nil {
		e.Tel = telemetry.SlogAPI{}
	}
	if e.Time == nil {
		e.Time = chrono.NewStandardTime()
	}
	return e
}

func (e Env) now() string {
	return e.Time.Now().UTC().Format(time.RFC3339)
}

// get fetches url, a clean 404 is reported as notFound and anything else
// that produced no body is an error.
func get(ctx context.Context, fetcher Fetcher, url string) (body []byte, notFound bool, err error) {
	res, err := fetcher.Get(ctx, url)
	if err != nil {
		return nil, false, err
	}
	switch res.Outcome {
	case fetch.OutcomeOK:
		return res.Body, false, nil
	case fetch.OutcomeNotFound:
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("no data from %s (status %d after %d attempts)", url, res.Status, res.Attempts)
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// memberSlug is the url slug of a member, derived from the name when the
// member list did not record one.
func memberSlug(m db.Member) string {
	if m.Slug != "" {
		return m.Slug
	}
	return textutil.Slug(m.Name)
}

func roleParams(memberID int64, r parse.Role) db.CreateRoleParams {
	return db.CreateRoleParams{
		MemberID:            memberID,
		RoleType:            string(r.Type),
		Title:               r.Title,
		FromDate:            parse.FormatDate(r.FromDate),
		ToDate:              parse.FormatDate(r.ToDate),
		ParliamentNumber:    derefInt(r.ParliamentNumber),
		SessionNumber:       derefInt(r.SessionNumber),
		CommitteeName:       r.CommitteeName,
		OrganizationName:    r.OrganizationName,
		AffiliationRoleName: r.AffiliationRoleName,
		ConstituencyName:    r.ConstituencyName,
		ProvinceName:        r.ProvinceName,
		PartyName:           r.PartyName,
		ElectionResult:      r.ElectionResult,
	}
}

// Definition is a job the cli can run by name.
type Definition struct {
	Name  string
	Short string
	// Pool marks jobs that run with concurrent fetches.
	Pool bool
	Run  func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error)
}

// Definitions lists the fetching jobs in the order a full ingest runs them.
func Definitions() []Definition {
	return []Definition{
		{
			Name:  MembersJobName,
			Short: "Upsert members from the member search listing of every parliament",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[int64](ctx, env.Tel, database, NewMembersJob(env), opts)
			},
		},
		{
			Name:  MembersHtmlJobName,
			Short: "Upsert members (id, name, slug) from the html member list",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[int64](ctx, env.Tel, database, NewMembersHtmlJob(env), opts)
			},
		},
		{
			Name:  RolesJobName,
			Short: "Fetch every member's roles and refresh their current riding and party",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[db.Member](ctx, env.Tel, database, NewRolesJob(env), opts)
			},
		},
		{
			Name:  VotesJobName,
			Short: "Fetch every member's recorded votes",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[db.Member](ctx, env.Tel, database, NewVotesJob(env), opts)
			},
		},
		{
			Name:  SponsoredBillsJobName,
			Short: "Fetch the bills each member sponsored",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[db.Member](ctx, env.Tel, database, NewSponsoredBillsJob(env), opts)
			},
		},
		{
			Name:  SessionBillsJobName,
			Short: "Fetch every session's bills and link senator sponsors",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[parliament.Session](ctx, env.Tel, database, NewSessionBillsJob(env), opts)
			},
		},
		{
			Name:  ProgressJobName,
			Short: "Fetch every bill's legislative stages and update its status",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[db.Bill](ctx, env.Tel, database, NewProgressJob(env), opts)
			},
		},
		{
			Name:  BillTextJobName,
			Short: "Fill missing bill details from the published bill text",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[db.Bill](ctx, env.Tel, database, NewBillTextJob(env), opts)
			},
		},
		{
			Name:  FillBillsJobName,
			Short: "Fill missing bill details from LEGISinfo with concurrent workers",
			Pool:  true,
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.RunPool[db.Bill](ctx, env.Tel, database, NewFillBillsJob(env), opts)
			},
		},
		{
			Name:  RecentJobName,
			Short: "Insert recently introduced bills",
			Run: func(ctx context.Context, env Env, database *sql.DB, opts pipeline.Options) (pipeline.Stats, error) {
				env = env.withDefaults()
				return pipeline.Run[int64](ctx, env.Tel, database, NewRecentJob(env), opts)
			},
		},
	}
}

// Lookup finds a definition by name.
func Lookup(name string) (Definition, bool) {
	for _, d := range Definitions() {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
