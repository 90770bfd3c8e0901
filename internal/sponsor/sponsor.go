// Package sponsor links the free-text sponsor of a bill to a senator or a member.
package sponsor

import (
	"parly-backend/internal/db"
	"parly-backend/lib/textutil"
	"strings"

	"github.com/antzucaro/matchr"
)

// MinSimilarity is the Jaro-Winkler similarity a fuzzy match needs.
const MinSimilarity = 0.92

const senatorPrefix = "Sen."

// IsSenator reports whether a raw sponsor string names a senator, ex. "Sen. Yuen Pau Woo".
func IsSenator(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), senatorPrefix)
}

type Method int

const (
	MethodNone Method = iota
	MethodExact
	MethodLastFirst
	MethodFuzzy
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodLastFirst:
		return "last_first"
	case MethodFuzzy:
		return "fuzzy"
	}
	return "none"
}

type Match struct {
	ID         int64
	Name       string
	Method     Method
	Similarity float64
}

type person struct {
	id         int64
	name       string
	normalized string
}

// Directory resolves names against a fixed list of people.
type Directory struct {
	people    []person
	exact     map[string]int
	lastFirst map[string]int
}

func newDirectory(count int) Directory {
	return Directory{
		exact:     make(map[string]int, count),
		lastFirst: make(map[string]int, count),
	}
}

func (d *Directory) add(id int64, name string) {
	normalized := textutil.NormalizeName(name)
	if normalized == "" {
		return
	}
	index := len(d.people)
	d.people = append(d.people, person{id: id, name: name, normalized: normalized})

	if _, taken := d.exact[normalized]; !taken {
		d.exact[normalized] = index
	}
	parts := strings.Fields(normalized)
	if len(parts) >= 2 {
		key := parts[len(parts)-1] + ", " + strings.Join(parts[:len(parts)-1], " ")
		if _, taken := d.lastFirst[key]; !taken {
			d.lastFirst[key] = index
		}
	}
}

// NewSenators indexes senators by name.
func NewSenators(senators []db.Senator) Directory {
	d := newDirectory(len(senators))
	for _, s := range senators {
		d.add(s.SenatorID, s.Name)
	}
	return d
}

// NewMembers indexes members by their display name.
func NewMembers(members []db.Member) Directory {
	d := newDirectory(len(members))
	for _, m := range members {
		name := m.Name
		if m.FirstName != "" && m.LastName != "" {
			name = m.FirstName + " " + m.LastName
		}
		d.add(m.MemberID, name)
	}
	return d
}

func (d Directory) Len() int {
	return len(d.people)
}

func (d Directory) match(index int, method Method, similarity float64) Match {
	p := d.people[index]
	return Match{ID: p.id, Name: p.name, Method: method, Similarity: similarity}
}

// Resolve finds the person `raw` names: an exact normalized match first, then
// the "Last, First" form, then the most similar name at or above MinSimilarity.
// Honorifics like "Sen." or "Hon." are ignored.
func (d Directory) Resolve(raw string) (Match, bool) {
	normalized := textutil.NormalizeName(raw)
	if normalized == "" {
		return Match{}, false
	}

	if index, ok := d.exact[normalized]; ok {
		return d.match(index, MethodExact, 1), true
	}
	if index, ok := d.lastFirst[normalized]; ok {
		return d.match(index, MethodLastFirst, 1), true
	}

	best := -1
	var bestSimilarity float64
	for i, p := range d.people {
		similarity := matchr.JaroWinkler(normalized, p.normalized, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = i
		}
	}
	if best < 0 || bestSimilarity < MinSimilarity {
		return Match{}, false
	}
	return d.match(best, MethodFuzzy, bestSimilarity), true
}
