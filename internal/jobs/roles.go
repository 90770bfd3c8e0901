package jobs

import (
	"context"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/db"
	"parly-backend/internal/parliament"
	"parly-backend/internal/parse"
	"parly-backend/internal/pipeline"
	"parly-backend/internal/signature"
	"parly-backend/lib/textutil"
)

const RolesJobName = "roles"

const (
	report_roles_empty = "roles.empty"
)

// RolesJob ingests every member's roles and keeps the member's current
// constituency, province and party in line with their latest roles.
type RolesJob struct {
	env Env
	tel telemetry.API
}

func NewRolesJob(env Env) *RolesJob {
	env = env.withDefaults()
	return &RolesJob{env: env, tel: telemetry.NewScopedAPI(RolesJobName, env.Tel)}
}

func (j *RolesJob) Name() string {
	return RolesJobName
}

func (j *RolesJob) Entities(ctx context.Context, q *db.Queries) ([]db.Member, error) {
	return q.ListMembers(ctx)
}

func (j *RolesJob) ID(m db.Member) int64 {
	return m.MemberID
}

func (j *RolesJob) Fetch(ctx context.Context, member db.Member) (pipeline.Result, error) {
	url := parliament.MemberRolesUrl(memberSlug(member), member.MemberID)
	body, notFound, err := get(ctx, j.env.Fetcher, url)
	if err != nil || notFound {
		return pipeline.Result{NotFound: notFound}, err
	}
	roles := parse.ParseRoles(j.tel, body)
	if len(roles) == 0 {
		j.tel.ReportDebug(report_roles_empty, "member", member.MemberID)
	}
	return pipeline.Result{
		Apply: func(ctx context.Context, q *db.Queries) (pipeline.Counts, error) {
			return j.apply(ctx, q, member, roles)
		},
	}, nil
}

func (j *RolesJob) apply(ctx context.Context, q *db.Queries, member db.Member, roles []parse.Role) (pipeline.Counts, error) {
	counts := pipeline.Counts{Fetched: len(roles)}

	stored, err := q.ListRoleKeys(ctx, member.MemberID)
	if err != nil {
		return counts, err
	}
	known := make(map[signature.Signature]db.ListRoleKeysRow, len(stored))
	for _, row := range stored {
		known[signature.StoredRole(member.MemberID, row)] = row
	}

	seen := signature.NewSet()
	for _, r := range roles {
		sig := signature.Role(member.MemberID, r)
		if !seen.Add(sig) {
			counts.Skipped++
			continue
		}
		params := roleParams(member.MemberID, r)
		row, ok := known[sig]
		if !ok {
			err = q.CreateRole(ctx, params)
			if err != nil {
				return counts, err
			}
			counts.Inserted++
			continue
		}

		// an open role gets its end date, or its title changes, once it is
		// published again
		update := db.UpdateRoleAttributesParams{
			Title:               params.Title,
			ToDate:              params.ToDate,
			AffiliationRoleName: params.AffiliationRoleName,
			ConstituencyName:    params.ConstituencyName,
			ProvinceName:        params.ProvinceName,
			PartyName:           params.PartyName,
			ElectionResult:      params.ElectionResult,
			RoleID:              row.RoleID,
		}
		if update == storedRoleAttributes(row) {
			counts.Skipped++
			continue
		}
		err = q.UpdateRoleAttributes(ctx, update)
		if err != nil {
			return counts, err
		}
		counts.Updated++
	}

	changed, err := j.refreshMember(ctx, q, member.MemberID, roles)
	if err != nil {
		return counts, err
	}
	if changed {
		counts.Updated++
	}
	return counts, nil
}

func storedRoleAttributes(row db.ListRoleKeysRow) db.UpdateRoleAttributesParams {
	return db.UpdateRoleAttributesParams{
		Title:               row.Title,
		ToDate:              row.ToDate,
		AffiliationRoleName: row.AffiliationRoleName,
		ConstituencyName:    row.ConstituencyName,
		ProvinceName:        row.ProvinceName,
		PartyName:           row.PartyName,
		ElectionResult:      row.ElectionResult,
		RoleID:              row.RoleID,
	}
}

// refreshMember derives the member's current fields from the stored roles:
// constituency and province from the latest MEMBER_OF_PARLIAMENT role, party
// from the latest POLITICAL_AFFILIATION role, and the official name.
func (j *RolesJob) refreshMember(ctx context.Context, q *db.Queries, memberID int64, roles []parse.Role) (bool, error) {
	existing, err := q.GetMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	updated := existing

	seat, err := q.GetLatestRole(ctx, db.GetLatestRoleParams{
		MemberID: memberID,
		RoleType: string(parse.RoleMemberOfParliament),
	})
	switch {
	case err == nil:
		if seat.ConstituencyName != "" {
			updated.Constituency = seat.ConstituencyName
		}
		if seat.ProvinceName != "" {
			updated.ProvinceName = seat.ProvinceName
		}
	case !isNotFound(err):
		return false, err
	}

	affiliation, err := q.GetLatestRole(ctx, db.GetLatestRoleParams{
		MemberID: memberID,
		RoleType: string(parse.RolePoliticalAffiliation),
	})
	switch {
	case err == nil:
		if affiliation.PartyName != "" {
			updated.Party = affiliation.PartyName
		}
	case !isNotFound(err):
		return false, err
	}

	firstName, lastName, ok := parse.MemberName(roles)
	if ok {
		updated.FirstName = firstName
		updated.LastName = lastName
		updated.Name = textutil.CollapseSpace(firstName + " " + lastName)
	}

	if updated == existing {
		return false, nil
	}
	updated.UpdatedAt = j.env.now()
	err = q.UpdateMember(ctx, updated)
	if err != nil {
		return false, err
	}
	return true, nil
}
