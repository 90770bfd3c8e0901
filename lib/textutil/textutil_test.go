package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{input: "Ziad Aboultaif", expect: "ziad aboultaif"},
		{input: "  Hon.   Mélanie   Joly ", expect: "melanie joly"},
		{input: "Sen. Yuen Pau Woo", expect: "yuen pau woo"},
		{input: "Robert (Bob) Zimmer", expect: "robert zimmer"},
		{input: "", expect: ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, NormalizeName(test.input), test.input)
	}
}

func TestFlipLastFirst(t *testing.T) {
	require.Equal(t, "Charles S. Adler", FlipLastFirst("Adler, Charles S."))
	require.Equal(t, "Justin Trudeau", FlipLastFirst("Trudeau, Justin"))
	require.Equal(t, "Robert Zimmer", FlipLastFirst("Zimmer, Robert (Bob)"))
	require.Equal(t, "Dawn Anderson", FlipLastFirst("Dawn  Anderson"))
}

func TestSlug(t *testing.T) {
	require.Equal(t, "ziad-aboultaif", Slug("Ziad Aboultaif"))
	require.Equal(t, "rejean-aucoin", Slug("Réjean Aucoin"))
	require.Equal(t, "mohammad-khair-al-zaibak", Slug("Mohammad Khair Al Zaibak"))
	require.Equal(t, "ginette-petitpas-taylor", Slug("Ginette Petitpas Taylor"))
	require.Equal(t, "jean-yves-duclos", Slug("Jean-Yves Duclos"))
	require.Equal(t, "marc-andre-o-neil", Slug("Marc-André O'Neil"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "ab", Truncate("abc", 2))
	require.Equal(t, "éé", Truncate("ééé", 2))
	require.Equal(t, "", Truncate("abc", 0))
}
