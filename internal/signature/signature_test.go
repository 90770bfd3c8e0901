package signature

import (
	"database/sql"
	"parly-backend/internal/db"
	"parly-backend/internal/parse"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func i64(n int64) *int64 {
	return &n
}

func TestRoleKey(t *testing.T) {
	base := parse.Role{
		Type:             parse.RoleCommitteeMember,
		FromDate:         day("2022-01-31"),
		ToDate:           day("2023-09-17"),
		ParliamentNumber: i64(44),
		SessionNumber:    i64(1),
		CommitteeName:    "International Trade",
	}

	cases := []struct {
		name   string
		mutate func(r *parse.Role)
		same   bool
	}{
		{name: "identical", mutate: func(r *parse.Role) {}, same: true},
		{name: "end date", mutate: func(r *parse.Role) { r.ToDate = nil }, same: true},
		{name: "affiliation role", mutate: func(r *parse.Role) { r.AffiliationRoleName = "Chair" }, same: true},
		{name: "title", mutate: func(r *parse.Role) { r.Title = "Vice-Chair" }, same: true},
		{name: "padded committee", mutate: func(r *parse.Role) { r.CommitteeName = " International Trade " }, same: true},
		{name: "start date", mutate: func(r *parse.Role) { r.FromDate = day("2022-02-01") }, same: false},
		{name: "no start date", mutate: func(r *parse.Role) { r.FromDate = nil }, same: false},
		{name: "role type", mutate: func(r *parse.Role) { r.Type = parse.RoleParliamentarianOffice }, same: false},
		{name: "parliament", mutate: func(r *parse.Role) { r.ParliamentNumber = i64(43) }, same: false},
		{name: "session", mutate: func(r *parse.Role) { r.SessionNumber = nil }, same: false},
		{name: "committee", mutate: func(r *parse.Role) { r.CommitteeName = "Finance" }, same: false},
		{name: "organization", mutate: func(r *parse.Role) { r.OrganizationName = "NATO PA" }, same: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := base
			tc.mutate(&other)
			require.Equal(t, tc.same, Role(1, base) == Role(1, other))
		})
	}

	require.NotEqual(t, Role(1, base), Role(2, base))
}

func TestStoredAgreesWithParsed(t *testing.T) {
	role := parse.Role{
		Type:             parse.RoleParliamentaryAssociation,
		OrganizationName: "Canada-Japan Inter-Parliamentary Group",
	}
	stored := db.ListRoleKeysRow{
		RoleType:         string(parse.RoleParliamentaryAssociation),
		OrganizationName: "Canada-Japan Inter-Parliamentary Group",
	}
	require.Equal(t, Role(7, role), StoredRole(7, stored))

	role = parse.Role{
		Type:             parse.RolePoliticalAffiliation,
		FromDate:         day("2021-09-20"),
		ParliamentNumber: i64(44),
		PartyName:        "Conservative",
	}
	stored = db.ListRoleKeysRow{
		RoleType:         string(parse.RolePoliticalAffiliation),
		FromDate:         "2021-09-20T00:00:00Z",
		ParliamentNumber: 44,
	}
	require.Equal(t, Role(7, role), StoredRole(7, stored))

	stage := parse.ProgressStage{Status: "First reading", Date: *day("2022-02-02")}
	require.Equal(t,
		BillProgress(3, stage),
		StoredBillProgress(3, db.ListProgressKeysRow{Status: "First reading", ProgressDate: "2022-02-02"}),
	)

	vote := parse.MemberVote{ParliamentNumber: 44, SessionNumber: 1, Date: *day("2024-03-20"), Topic: "Motion"}
	require.Equal(t,
		Vote(vote),
		StoredVote(db.ListMemberVoteKeysRow{ParliamentNumber: 44, SessionNumber: 1, VoteDate: "2024-03-20", VoteTopic: "Motion"}),
	)
}

func TestSet(t *testing.T) {
	set := NewSet()
	a := New(Text("a"), Int(1))
	b := New(Text("a"), Int(2))

	require.True(t, set.Add(a))
	require.False(t, set.Add(a))
	require.True(t, set.Add(b))
	require.True(t, set.Has(a))
	require.Equal(t, 2, set.Len())

	// parts are separated so concatenations cannot collide
	require.NotEqual(t, New(Text("ab"), Text("c")), New(Text("a"), Text("bc")))
}

func TestBillSet(t *testing.T) {
	set := NewBillSet()
	set.AddStored(db.Bill{
		LegisinfoBillID:  sql.NullInt64{Int64: 12346, Valid: true},
		BillNumber:       "C-234",
		ParliamentNumber: 44,
		SessionNumber:    1,
	})

	require.True(t, set.Has(sql.NullInt64{Int64: 12346, Valid: true}, "C-999", 44, 1))
	require.True(t, set.Has(sql.NullInt64{}, "C-234", 44, 1))
	require.False(t, set.Has(sql.NullInt64{}, "C-234", 43, 1))

	require.False(t, set.Add(sql.NullInt64{Int64: 1, Valid: true}, "C-234", 44, 1))
	require.True(t, set.Add(sql.NullInt64{}, "C-235", 44, 1))
	require.False(t, set.Add(sql.NullInt64{}, "C-235", 44, 1))
	require.Equal(t, 2, set.Len())
}
