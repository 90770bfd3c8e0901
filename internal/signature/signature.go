// Package signature builds the natural keys used to tell whether a record is
// already stored. Stored rows and freshly parsed records go through the same
// constructors so both sides normalize identically.
package signature

import (
	"strconv"
	"strings"
	"time"
)

// Signature is a comparable natural key.
type Signature string

const separator = "\x1f"

// Part is one normalized component of a signature.
type Part string

func Text(s string) Part {
	return Part(strings.TrimSpace(s))
}

func Int(n int64) Part {
	return Part(strconv.FormatInt(n, 10))
}

// OptionalInt maps nil to "" and is otherwise Int.
func OptionalInt(n *int64) Part {
	if n == nil {
		return ""
	}
	return Int(*n)
}

// Date maps nil and the zero time to "", other times to YYYY-MM-DD.
func Date(t *time.Time) Part {
	if t == nil || t.IsZero() {
		return ""
	}
	return Part(t.Format(time.DateOnly))
}

// StoredDate normalizes a date read back from the database, so "2024-03-18" and
// "2024-03-18T00:00:00Z" agree.
func StoredDate(s string) Part {
	s = strings.TrimSpace(s)
	if len(s) >= len(time.DateOnly) {
		if _, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return Part(s[:len(time.DateOnly)])
		}
	}
	return Part(s)
}

// StoredInt maps the 0 stored for absent numbers to "", matching OptionalInt(nil).
func StoredInt(n int64) Part {
	if n == 0 {
		return ""
	}
	return Int(n)
}

func New(parts ...Part) Signature {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = string(p)
	}
	return Signature(strings.Join(strs, separator))
}

// Set holds the signatures known for one parent entity.
type Set struct {
	items map[Signature]struct{}
}

func NewSet() *Set {
	return &Set{items: map[Signature]struct{}{}}
}

func (s *Set) Has(sig Signature) bool {
	_, ok := s.items[sig]
	return ok
}

// Add returns false when `sig` was already present.
func (s *Set) Add(sig Signature) bool {
	if s.Has(sig) {
		return false
	}
	s.items[sig] = struct{}{}
	return true
}

func (s *Set) Len() int {
	return len(s.items)
}
