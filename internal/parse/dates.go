package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order, the payloads are inconsistent about milliseconds,
// zones and separators depending on the endpoint and its version.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Monday, January 2, 2006",
	"January 2, 2006",
}

var yearRegex = regexp.MustCompile(`\b(1[89]\d\d|20\d\d)\b`)

// ParseDate parses the date part of `s` using the first layout that matches.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return truncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseDateLenient is ParseDate that falls back to January 1st of the first
// 4-digit year found in `s`.
func ParseDateLenient(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err == nil {
		return t, nil
	}
	match := yearRegex.FindString(s)
	if match == "" {
		return time.Time{}, err
	}
	year, convErr := strconv.Atoi(match)
	if convErr != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate is the storage form of a date, nil becomes "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// optionalDate parses a date field, failures only affect the field itself.
func optionalDate(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := ParseDateLenient(s)
	if err != nil {
		return nil
	}
	return &t
}
