package parse

import (
	"context"
	"os"
	"parly-backend/internal/components/telemetry"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return body
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func i64(n int64) *int64 {
	return &n
}

func TestParseRoles(t *testing.T) {
	tel := &telemetry.Recorder{}
	roles := ParseRoles(tel, readFixture(t, "roles.xml"))

	expected := []Role{
		{
			Type:             RoleMemberOfParliament,
			FromDate:         date(2021, 9, 20),
			ConstituencyName: "Edmonton Manning",
			ProvinceName:     "Alberta",
			FirstName:        "Ziad",
			LastName:         "Aboultaif",
		},
		{
			Type:             RoleMemberOfParliament,
			FromDate:         date(2015, 10, 19),
			ToDate:           date(2019, 9, 11),
			ConstituencyName: "Edmonton Manning",
			ProvinceName:     "Alberta",
			FirstName:        "Ziad",
			LastName:         "Aboultaif",
		},
		{
			Type:             RolePoliticalAffiliation,
			FromDate:         date(2021, 9, 20),
			ParliamentNumber: i64(44),
			PartyName:        "Conservative",
		},
		{
			Type:                RoleCommitteeMember,
			FromDate:            date(2022, 1, 31),
			ToDate:              date(2023, 9, 17),
			ParliamentNumber:    i64(44),
			SessionNumber:       i64(1),
			CommitteeName:       "International Trade",
			AffiliationRoleName: "Member",
		},
		{
			Type:                RoleCommitteeMember,
			FromDate:            date(2016, 2, 1),
			ToDate:              date(2019, 9, 11),
			ParliamentNumber:    i64(42),
			SessionNumber:       i64(1),
			CommitteeName:       "International Trade",
			AffiliationRoleName: "Vice-Chair",
		},
		{
			Type:                RoleParliamentaryAssociation,
			Title:               "Member",
			OrganizationName:    "Canada-Japan Inter-Parliamentary Group",
			AffiliationRoleName: "Member",
		},
		{
			Type:             RoleElectionCandidate,
			Title:            "General Election",
			FromDate:         date(2021, 9, 20),
			ConstituencyName: "Edmonton Manning",
			ProvinceName:     "Alberta",
			PartyName:        "Conservative",
			ElectionResult:   "Elected",
		},
		{
			Type:             RoleParliamentarianOffice,
			Title:            "Deputy Chair of Committees of the Whole",
			FromDate:         date(2023, 10, 3),
			ParliamentNumber: i64(44),
		},
		{
			Type:     RoleParliamentarianOffice,
			Title:    "Critic for Trade Diversification",
			FromDate: date(2020, 9, 8),
			ToDate:   date(2021, 8, 15),
		},
	}

	if diff := cmp.Diff(expected, roles); diff != "" {
		t.Fatal("roles differ (-expected +got):\n", diff)
	}
	require.Empty(t, tel.Find("warning", report_roles_xml))

	firstName, lastName, ok := MemberName(roles)
	require.True(t, ok)
	require.Equal(t, "Ziad", firstName)
	require.Equal(t, "Aboultaif", lastName)
}

func TestParseRolesMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "truncated", body: "<Profile><CaucusMemberRole><CaucusShortName>Liberal"},
		{name: "html", body: "<html><body><p>unclosed</body>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tel := &telemetry.Recorder{}
			require.Empty(t, ParseRoles(tel, []byte(tc.body)))
			require.Len(t, tel.Find("warning", report_roles_xml), 1)
		})
	}
}

func TestParseVotes(t *testing.T) {
	tel := &telemetry.Recorder{}
	votes := ParseVotes(tel, readFixture(t, "votes.xml"))

	expected := []MemberVote{
		{
			ParliamentNumber: 44,
			SessionNumber:    1,
			Date:             *date(2024, 3, 20),
			Topic:            "2nd reading of Bill C-234, An Act to amend the Greenhouse Gas Pollution Pricing Act",
			Subject:          "2nd reading of Bill C-234, An Act to amend the Greenhouse Gas Pollution Pricing Act",
			Result:           "Agreed To",
			Value:            "Yea",
			DivisionNumber:   i64(689),
		},
		{
			ParliamentNumber: 44,
			SessionNumber:    1,
			Date:             *date(2024, 3, 19),
			Topic:            "Opposition Motion (Carbon tax)",
			Subject:          "Opposition Motion (Carbon tax)",
			Result:           "Negatived",
			Value:            "Nay",
		},
	}
	if diff := cmp.Diff(expected, votes); diff != "" {
		t.Fatal("votes differ (-expected +got):\n", diff)
	}
	require.Len(t, tel.Find("debug", report_votes_skip), 2)
}

func TestParseVotesTruncatesTopic(t *testing.T) {
	subject := strings.Repeat("é", 300)
	body := `<ArrayOfMemberVote><MemberVote>
		<ParliamentNumber>44</ParliamentNumber>
		<SessionNumber>1</SessionNumber>
		<DecisionEventDateTime>2024-03-20</DecisionEventDateTime>
		<DecisionDivisionSubject>` + subject + `</DecisionDivisionSubject>
		<VoteValueName>Yea</VoteValueName>
	</MemberVote></ArrayOfMemberVote>`

	votes := ParseVotes(&telemetry.Recorder{}, []byte(body))
	require.Len(t, votes, 1)
	require.Equal(t, MaxTopicLength, len([]rune(votes[0].Topic)))
	require.Equal(t, subject, votes[0].Subject)
	require.Equal(t, "Unknown", votes[0].Result)
}

func TestParseBills(t *testing.T) {
	tel := &telemetry.Recorder{}
	bills := ParseBills(tel, readFixture(t, "bills.xml"))

	expected := []Bill{
		{
			LegisinfoID:      12345,
			Number:           "S-209",
			ParliamentNumber: 44,
			SessionNumber:    1,
			ShortTitle:       "Protecting Young Persons from Exposure to Pornography Act",
			LongTitle:        "An Act to restrict young persons' online access to sexually explicit material",
			Status:           "Third reading",
			Chamber:          "Senate",
			Sponsor:          "Sen. Julie Miville-Dechêne",
		},
		{
			LegisinfoID:      12346,
			Number:           "C-234",
			ParliamentNumber: 44,
			SessionNumber:    1,
			LongTitle:        "An Act to amend the Greenhouse Gas Pollution Pricing Act",
			Status:           "Introduced",
			Chamber:          "House of Commons",
			Sponsor:          "Ben Lobb",
		},
	}
	if diff := cmp.Diff(expected, bills); diff != "" {
		t.Fatal("bills differ (-expected +got):\n", diff)
	}
	require.Len(t, tel.Find("warning", report_bills_skip), 1)
	require.Len(t, tel.Find("debug", report_bills_skip), 1)
}

func TestParseProgress(t *testing.T) {
	tel := &telemetry.Recorder{}
	stages := ParseProgress(tel, readFixture(t, "progress.json"))

	expected := []ProgressStage{
		{Status: "First reading", Date: *date(2022, 2, 2), Chamber: "House of Commons", State: "Completed"},
		{Status: "Second reading", Date: *date(2022, 5, 11), Chamber: "House of Commons", State: "Completed"},
		{Status: "First reading", Date: *date(2023, 3, 30), Chamber: "Senate", State: "Completed"},
	}
	if diff := cmp.Diff(expected, stages); diff != "" {
		t.Fatal("stages differ (-expected +got):\n", diff)
	}

	latest, ok := LatestStage(stages)
	require.True(t, ok)
	require.Equal(t, "Senate", latest.Chamber)

	object := `{"BillStages": {"HouseBillStages": [{"BillStageName": "First reading", "StateAsOfDate": "2022-02-02", "State": 2}]}}`
	stages = ParseProgress(tel, []byte(object))
	require.Equal(t, []ProgressStage{
		{Status: "First reading", Date: *date(2022, 2, 2), Chamber: "House of Commons", State: "2"},
	}, stages)

	require.Empty(t, ParseProgress(tel, []byte("[]")))
	require.Empty(t, ParseProgress(tel, []byte("{not json")))
	require.Len(t, tel.Find("warning", report_progress_json), 2)
}

func TestParseBillDocument(t *testing.T) {
	tel := &telemetry.Recorder{}
	doc, ok := ParseBillDocument(tel, readFixture(t, "bill_E.xml"))
	require.True(t, ok)

	expected := BillDocument{
		Summary: "This enactment amends the Greenhouse Gas Pollution Pricing Act." +
			"\n\nPreamble: Whereas farmers are stewards of the land; Whereas natural gas and propane are used on farms;",
		Sponsor:          "Mr. Lobb",
		BillType:         "private-public",
		IntroductionDate: date(2022, 2, 2),
	}
	if diff := cmp.Diff(expected, doc); diff != "" {
		t.Fatal("document differs (-expected +got):\n", diff)
	}

	doc, ok = ParseBillDocument(tel, []byte(`<Bill><Introduction><Preamble><Provision><Text>Whereas</Text></Provision></Preamble></Introduction></Bill>`))
	require.True(t, ok)
	require.Equal(t, BillDocument{Summary: "Whereas"}, doc)

	_, ok = ParseBillDocument(tel, []byte("<Bill>"))
	require.False(t, ok)
}

func TestParseRecentBills(t *testing.T) {
	tel := &telemetry.Recorder{}
	bills := ParseRecentBills(tel, readFixture(t, "recent.json"))

	expected := []BillDetail{
		{
			LegisinfoID:      13001,
			Number:           "C-70",
			ParliamentNumber: 44,
			SessionNumber:    1,
			ShortTitle:       "Countering Foreign Interference Act",
			LongTitle:        "An Act respecting countering foreign interference",
			Chamber:          "House of Commons",
			SponsorName:      "Dominic LeBlanc",
			BillType:         BillTypeGovernment,
			IntroductionDate: date(2024, 5, 6),
		},
		{
			LegisinfoID:      13002,
			Number:           "S-282",
			ParliamentNumber: 44,
			SessionNumber:    1,
			LongTitle:        "An Act to amend the Income Tax Act",
			Chamber:          "Senate",
			SponsorName:      "Colin Deacon",
			BillType:         BillTypePrivatePublic,
			IntroductionDate: date(2024, 5, 30),
		},
	}
	if diff := cmp.Diff(expected, bills); diff != "" {
		t.Fatal("bills differ (-expected +got):\n", diff)
	}
	require.Len(t, tel.Find("warning", report_recent_skip), 1)
}

func TestParseBillDetail(t *testing.T) {
	tel := &telemetry.Recorder{}

	detail, ok := ParseBillDetail(tel, []byte(`[{"Id": 1, "NumberCode": "C-5", "ParliamentNumber": 44, "SessionNumber": 1, "IsHouseBill": true, "PassedSenateFirstReadingDateTime": "2022-06-01T10:00:00Z"}]`))
	require.True(t, ok)
	require.Equal(t, "C-5", detail.Number)
	require.Equal(t, date(2022, 6, 1), detail.IntroductionDate)
	require.Equal(t, BillTypePrivatePublic, detail.BillType)

	detail, ok = ParseBillDetail(tel, []byte(`{"Id": 2, "NumberCode": "S-1", "IsGovernmentBill": true}`))
	require.True(t, ok)
	require.Equal(t, BillTypeGovernment, detail.BillType)
	require.Equal(t, "Senate", detail.Chamber)
	require.Nil(t, detail.IntroductionDate)

	_, ok = ParseBillDetail(tel, []byte(`<html>`))
	require.False(t, ok)
}

func TestParseMemberSearch(t *testing.T) {
	tel := &telemetry.Recorder{}
	members := ParseMemberSearch(tel, readFixture(t, "search.xml"))

	expected := []SearchMember{
		{
			MemberID:     88394,
			FirstName:    "Mélanie",
			LastName:     "Joly",
			Constituency: "Ahuntsic-Cartierville",
			Province:     "Quebec",
			Caucus:       "Liberal",
			FromDate:     date(2021, 9, 20),
		},
		{
			MemberID:     89156,
			FirstName:    "Ziad",
			LastName:     "Aboultaif",
			Constituency: "Edmonton Manning",
			Province:     "Alberta",
			Caucus:       "Conservative",
			FromDate:     date(2021, 9, 20),
		},
	}
	if diff := cmp.Diff(expected, members); diff != "" {
		t.Fatal("members differ (-expected +got):\n", diff)
	}
	require.Equal(t, "Mélanie Joly", members[0].Name())
}

func TestParseMemberLinks(t *testing.T) {
	tel := &telemetry.Recorder{}
	links := ParseMemberLinks(context.Background(), tel, readFixture(t, "members.html"))

	expected := []MemberLink{
		{MemberID: 89156, Slug: "ziad-aboultaif", Name: "Ziad Aboultaif"},
		{MemberID: 88394, Slug: "melanie-joly", Name: "Mélanie Joly"},
		{MemberID: 105340, Slug: "scott-aitchison", Name: "scott aitchison"},
	}
	if diff := cmp.Diff(expected, links); diff != "" {
		t.Fatal("links differ (-expected +got):\n", diff)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		input    string
		lenient  bool
		expected *time.Time
	}{
		{input: "2024-03-18T16:16:43.517", expected: date(2024, 3, 18)},
		{input: "2024-03-18T16:16:43Z", expected: date(2024, 3, 18)},
		{input: "2024-03-18T23:16:43-05:00", expected: date(2024, 3, 18)},
		{input: "2024-03-18T16:16:43", expected: date(2024, 3, 18)},
		{input: "2024-03-18", expected: date(2024, 3, 18)},
		{input: "2024/03/18", expected: date(2024, 3, 18)},
		{input: "Monday, March 18, 2024", expected: date(2024, 3, 18)},
		{input: " 2024-03-18 ", expected: date(2024, 3, 18)},
		{input: "sometime in 1997", expected: nil},
		{input: "sometime in 1997", lenient: true, expected: date(1997, 1, 1)},
		{input: "", lenient: true, expected: nil},
		{input: "unknown", lenient: true, expected: nil},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			var got time.Time
			var err error
			if tc.lenient {
				got, err = ParseDateLenient(tc.input)
			} else {
				got, err = ParseDate(tc.input)
			}
			if tc.expected == nil {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, *tc.expected, got)
		})
	}

	require.Equal(t, "", FormatDate(nil))
	require.Equal(t, "2024-03-18", FormatDate(date(2024, 3, 18)))
}
