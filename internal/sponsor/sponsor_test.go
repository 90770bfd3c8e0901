package sponsor

import (
	"parly-backend/internal/db"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestIsSenator(t *testing.T) {
	require.True(t, IsSenator("Sen. Yuen Pau Woo"))
	require.True(t, IsSenator("  Sen. Marc Gold"))
	require.False(t, IsSenator("Hon. Chrystia Freeland"))
	require.False(t, IsSenator(""))
}

func TestResolveSenators(t *testing.T) {
	senators := NewSenators([]db.Senator{
		{SenatorID: 1, Name: "Yuen Pau Woo"},
		{SenatorID: 2, Name: "Marc Gold"},
		{SenatorID: 3, Name: "Pierre-Hugues Boisvenu"},
		{SenatorID: 4, Name: "Claude Carignan"},
	})
	require.Equal(t, 4, senators.Len())

	testCases := []struct {
		raw      string
		expected Match
		ok       bool
	}{
		{
			raw:      "Sen. Yuen Pau Woo",
			expected: Match{ID: 1, Name: "Yuen Pau Woo", Method: MethodExact, Similarity: 1},
			ok:       true,
		},
		{
			raw:      "Sen. MARC  GOLD",
			expected: Match{ID: 2, Name: "Marc Gold", Method: MethodExact, Similarity: 1},
			ok:       true,
		},
		{
			raw:      "Woo, Yuen Pau",
			expected: Match{ID: 1, Name: "Yuen Pau Woo", Method: MethodLastFirst, Similarity: 1},
			ok:       true,
		},
		{
			raw:      "Sen. Pierre-Hugues Boisvenue",
			expected: Match{ID: 3, Name: "Pierre-Hugues Boisvenu", Method: MethodFuzzy},
			ok:       true,
		},
		{
			raw:      "Sen. Claude Carignan (Mille Isles)",
			expected: Match{ID: 4, Name: "Claude Carignan", Method: MethodExact, Similarity: 1},
			ok:       true,
		},
		{raw: "Sen. Someone Else"},
		{raw: "Sen."},
		{raw: ""},
	}

	for _, test := range testCases {
		match, ok := senators.Resolve(test.raw)
		require.Equal(t, test.ok, ok, test.raw)
		if !test.ok {
			continue
		}
		var opts cmp.Options
		if test.expected.Method == MethodFuzzy {
			opts = append(opts, cmpopts.IgnoreFields(Match{}, "Similarity"))
		}
		diff := cmp.Diff(test.expected, match, opts)
		require.Empty(t, diff, test.raw)
		require.GreaterOrEqual(t, match.Similarity, MinSimilarity)
	}
}

func TestResolveMembers(t *testing.T) {
	members := NewMembers([]db.Member{
		{MemberID: 89156, Name: "Ziad Aboultaif", FirstName: "Ziad", LastName: "Aboultaif"},
		{MemberID: 25446, Name: "Réjean Aubin"},
		{MemberID: 1, Name: ""},
	})
	require.Equal(t, 2, members.Len())

	match, ok := members.Resolve("Hon. Ziad Aboultaif")
	require.True(t, ok)
	require.Equal(t, int64(89156), match.ID)

	match, ok = members.Resolve("Rejean Aubin")
	require.True(t, ok)
	require.Equal(t, int64(25446), match.ID)
	require.Equal(t, MethodExact, match.Method)

	_, ok = members.Resolve("Chrystia Freeland")
	require.False(t, ok)
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "exact", MethodExact.String())
	require.Equal(t, "last_first", MethodLastFirst.String())
	require.Equal(t, "fuzzy", MethodFuzzy.String())
	require.Equal(t, "none", MethodNone.String())
}
