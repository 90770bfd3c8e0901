package jobs

import (
	"context"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/lib/textutil"
)

const (
	MembersJobName     = "members"
	MembersHtmlJobName = "members-html"
)

// MembersJob walks the member search listing of every parliament. Entities
// are parliament numbers.
type MembersJob struct {
	env Env
	tel telemetry.API
}

func NewMembersJob(env Env) *MembersJob {
	env = env.withDefaults()
	return &MembersJob{env: env, tel: telemetry.NewScopedAPI(MembersJobName, env.Tel)}
}

func (j *MembersJob) Name() string {
	return MembersJobName
}

func (j *MembersJob) Entities(ctx context.Context, q *db.Queries) ([]int64, error) {
	return parliament.Parliaments(), nil
}

func (j *MembersJob) ID(parliamentNumber int64) int64 {
	return parliamentNumber
}

func (j *MembersJob) Fetch(ctx context.Context, parliamentNumber int64) (pipeline.Result, error) {
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.MemberSearchUrl(parliamentNumber))
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	members := parse.ParseMemberSearch(j.tel, body)
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			counts := pipeline.Counts{Fetched: len(members)}
			for _, m := range members {
				c, err := upsertMember(ctx, q, db.Member{
					MemberID:     m.MemberID,
					Name:         m.Name(),
					FirstName:    m.FirstName,
					LastName:     m.LastName,
					Slug:         textutil.Slug(m.Name()),
					Constituency: m.Constituency,
					ProvinceName: m.Province,
					Party:        m.Caucus,
					UpdatedAt:    j.env.now(),
				})
				if err != nil {
					return counts, err
				}
				counts.Add(c)
			}
			return counts, nil
		},
	}, nil
}

// upsertMember inserts a new member or fills in what an existing one lacks.
// Official names replace whatever was stored. Constituency, province and party
// are only filled when empty, the roles job owns them.
func upsertMember(ctx context.Context, q *db.Queries, incoming db.Member) (pipeline.Counts, error) {
	existing, err := q.GetMember(ctx, incoming.MemberID)
	if isNotFound(err) {
		err = q.CreateMember(ctx, incoming)
		if err != nil {
			return pipeline.Counts{}, err
		}
		return pipeline.Counts{Inserted: 1}, nil
	}
	if err != nil {
		return pipeline.Counts{}, err
	}

	updated := existing
	if incoming.FirstName != "" && incoming.LastName != "" {
		updated.Name = incoming.Name
		updated.FirstName = incoming.FirstName
		updated.LastName = incoming.LastName
	} else if updated.Name == "" {
		updated.Name = incoming.Name
	}
	if updated.Slug == "" {
		updated.Slug = incoming.Slug
	}
	if updated.Constituency == "" {
		updated.Constituency = incoming.Constituency
	}
	if updated.ProvinceName == "" {
		updated.ProvinceName = incoming.ProvinceName
	}
	if updated.Party == "" {
		updated.Party = incoming.Party
	}

	updated.UpdatedAt = existing.UpdatedAt
	if updated == existing {
		return pipeline.Counts{Skipped: 1}, nil
	}
	updated.UpdatedAt = incoming.UpdatedAt
	err = q.UpdateMember(ctx, updated)
	if err != nil {
		return pipeline.Counts{}, err
	}
	return pipeline.Counts{Updated: 1}, nil
}

// MembersHtmlJob reads the html member list, it has a single entity.
type MembersHtmlJob struct {
	env Env
	tel telemetry.API
}

func NewMembersHtmlJob(env Env) *MembersHtmlJob {
	env = env.withDefaults()
	return &MembersHtmlJob{env: env, tel: telemetry.NewScopedAPI(MembersHtmlJobName, env.Tel)}
}

func (j *MembersHtmlJob) Name() string {
	return MembersHtmlJobName
}

func (j *MembersHtmlJob) Entities(ctx context.Context, q *db.Queries) ([]int64, error) {
	return []int64{1}, nil
}

func (j *MembersHtmlJob) ID(page int64) int64 {
	return page
}

func (j *MembersHtmlJob) Fetch(ctx context.Context, _ int64) (pipeline.Result, error) {
	body, notFound, err := get(ctx, j.env.Fetcher, parliament.MemberListHtmlUrl())
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	links := parse.ParseMemberLinks(ctx, j.tel, body)
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			counts := pipeline.Counts{Fetched: len(links)}
			for _, link := range links {
				c, err := upsertMember(ctx, q, db.Member{
					MemberID:  link.MemberID,
					Name:      link.Name,
					Slug:      link.Slug,
					UpdatedAt: j.env.now(),
				})
				if err != nil {
					return counts, err
				}
				counts.Add(c)
			}
			return counts, nil
		},
	}, nil
}
