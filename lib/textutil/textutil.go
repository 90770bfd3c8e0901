package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// honorifics that prefix sponsor names in LEGISinfo payloads
var honorifics = []string{"the hon.", "hon.", "sen.", "mr.", "mrs.", "ms.", "dr.", "rt. hon."}

// CollapseSpace trims and collapses runs of whitespace into single spaces.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// StripAccents removes diacritics, ex. "Réjean" -> "Rejean".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName produces the comparison form of a person's name: honorifics and
// parenthesized nicknames removed, lowercase, accents stripped, single spaced.
func NormalizeName(name string) string {
	name = parentheticalRegex.ReplaceAllString(name, "")
	name = strings.ToLower(CollapseSpace(name))
	for _, prefix := range honorifics {
		if strings.HasPrefix(name, prefix+" ") {
			name = strings.TrimSpace(name[len(prefix):])
		}
	}
	return StripAccents(name)
}

// FlipLastFirst converts "Family, Personal" into "Personal Family", other names are
// returned collapsed but otherwise untouched.
func FlipLastFirst(name string) string {
	family, personal, found := strings.Cut(name, ",")
	if !found {
		return CollapseSpace(name)
	}
	personal = parentheticalRegex.ReplaceAllString(personal, "")
	return CollapseSpace(personal + " " + family)
}

// Slug produces the url form of a member name used by ourcommons.ca,
// ex. "Ziad Aboultaif" -> "ziad-aboultaif".
func Slug(name string) string {
	slug := strings.ToLower(StripAccents(CollapseSpace(name)))
	slug = nonSlugRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
