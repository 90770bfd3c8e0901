package parliament

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUrls(t *testing.T) {
	s := Session{Parliament: 44, Session: 1}
	c11 := BillNumber{Prefix: "C", Number: 11}

	testCases := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "roles",
			got:      MemberRolesUrl("ziad-aboultaif", 89156),
			expected: "https://www.ourcommons.ca/Members/en/ziad-aboultaif(89156)/roles/xml",
		},
		{
			name:     "votes",
			got:      MemberVotesUrl("ziad-aboultaif", 89156),
			expected: "https://www.ourcommons.ca/Members/en/ziad-aboultaif(89156)/votes/xml",
		},
		{
			name:     "sponsored bills",
			got:      SponsoredBillsUrl(89156),
			expected: "https://www.parl.ca/legisinfo/en/bills/xml?parlsession=all&sponsor=89156&advancedview=true",
		},
		{
			name:     "session bills",
			got:      SessionBillsUrl(s),
			expected: "https://www.parl.ca/legisinfo/en/bills/xml?parlsession=44-1",
		},
		{
			name:     "progress",
			got:      BillProgressUrl(s, c11),
			expected: "https://www.parl.ca/LegisInfo/en/bill/44-1/C-11/json?view=progress",
		},
		{
			name:     "bill json",
			got:      BillJsonUrl(s, c11),
			expected: "https://www.parl.ca/legisinfo/en/bill/44-1/C-11/json",
		},
		{
			name:     "government bill text",
			got:      BillTextUrl(s, c11),
			expected: "https://www.parl.ca/Content/Bills/441/Government/C-11/C-11_1/C-11_E.xml",
		},
		{
			name:     "private bill text",
			got:      BillTextUrl(s, BillNumber{Prefix: "C", Number: 201}),
			expected: "https://www.parl.ca/Content/Bills/441/Private/C-201/C-201_1/C-201_E.xml",
		},
		{
			name:     "senate bill text",
			got:      BillTextUrl(s, BillNumber{Prefix: "S", Number: 5}),
			expected: "https://www.parl.ca/Content/Bills/441/Senate/S-5/S-5_1/S-5_E.xml",
		},
		{
			name:     "member search",
			got:      MemberSearchUrl(42),
			expected: "https://www.ourcommons.ca/Members/en/search/xml?caucusId=all&gender=all&parliament=42&province=all",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestParseBillNumber(t *testing.T) {
	b, err := ParseBillNumber(" c-234 ")
	require.NoError(t, err)
	require.Equal(t, BillNumber{Prefix: "C", Number: 234}, b)

	_, err = ParseBillNumber("C234")
	require.Error(t, err)
	_, err = ParseBillNumber("C-abc")
	require.Error(t, err)
}

func TestSessions(t *testing.T) {
	require.Equal(t, int64(4401), Session{Parliament: 44, Session: 1}.Key())
	require.Equal(t, []int64{35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45}, Parliaments())
	for i := 1; i < len(Sessions); i++ {
		require.Less(t, Sessions[i-1].Key(), Sessions[i].Key())
	}
	require.True(t, ValidParliament(35))
	require.True(t, ValidParliament(50))
	require.False(t, ValidParliament(34))
	require.False(t, ValidParliament(51))
}
