// Package parliament knows the shape of the public ourcommons.ca and parl.ca
// endpoints and the parliament/session numbering they share.
package parliament

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	MembersBaseUrl   = "https://www.ourcommons.ca/Members/en"
	LegisinfoBaseUrl = "https://www.parl.ca/legisinfo/en"
	BillTextBaseUrl  = "https://www.parl.ca/Content/Bills"

	ChamberHouse  = "House of Commons"
	ChamberSenate = "Senate"

	MinParliament = 35
	MaxParliament = 50
)

// Session is a parliament/session pair, ex. 44-1.
type Session struct {
	Parliament int64
	Session    int64
}

func (s Session) String() string {
	return fmt.Sprintf("%d-%d", s.Parliament, s.Session)
}

// Key is a stable integer id for checkpointing, 44-1 -> 4401.
func (s Session) Key() int64 {
	return s.Parliament*100 + s.Session
}

// Sessions lists every parliament session LEGISinfo has bills for, oldest first.
var Sessions = []Session{
	{35, 1}, {35, 2},
	{36, 1}, {36, 2},
	{37, 1}, {37, 2}, {37, 3},
	{38, 1},
	{39, 1}, {39, 2},
	{40, 1}, {40, 2}, {40, 3},
	{41, 1}, {41, 2},
	{42, 1},
	{43, 1}, {43, 2},
	{44, 1},
	{45, 1},
}

// Parliaments returns the parliament numbers covered by Sessions.
func Parliaments() []int64 {
	var out []int64
	for _, s := range Sessions {
		if len(out) == 0 || out[len(out)-1] != s.Parliament {
			out = append(out, s.Parliament)
		}
	}
	return out
}

func ValidParliament(n int64) bool {
	return n >= MinParliament && n <= MaxParliament
}

// MemberPath is the "{slug}({id})" path segment ourcommons.ca uses for members.
func MemberPath(slug string, memberID int64) string {
	return fmt.Sprintf("%s(%d)", slug, memberID)
}

func MemberRolesUrl(slug string, memberID int64) string {
	return fmt.Sprintf("%s/%s/roles/xml", MembersBaseUrl, MemberPath(slug, memberID))
}

func MemberVotesUrl(slug string, memberID int64) string {
	return fmt.Sprintf("%s/%s/votes/xml", MembersBaseUrl, MemberPath(slug, memberID))
}

func MemberSearchUrl(parliamentNumber int64) string {
	q := url.Values{}
	q.Set("parliament", strconv.FormatInt(parliamentNumber, 10))
	q.Set("caucusId", "all")
	q.Set("province", "all")
	q.Set("gender", "all")
	return fmt.Sprintf("%s/search/xml?%s", MembersBaseUrl, q.Encode())
}

// MemberListHtmlUrl is the legacy html listing of current members.
func MemberListHtmlUrl() string {
	return fmt.Sprintf("%s/search?view=list", MembersBaseUrl)
}

func SponsoredBillsUrl(memberID int64) string {
	return fmt.Sprintf("%s/bills/xml?parlsession=all&sponsor=%d&advancedview=true", LegisinfoBaseUrl, memberID)
}

func SessionBillsUrl(s Session) string {
	return fmt.Sprintf("%s/bills/xml?parlsession=%s", LegisinfoBaseUrl, s)
}

func RecentBillsUrl() string {
	return fmt.Sprintf("%s/overview/json/recentlyintroduced", LegisinfoBaseUrl)
}

// BillNumber is a split bill number, ex. "C-11" -> {Prefix: "C", Number: 11}.
type BillNumber struct {
	Prefix string
	Number int
}

func (b BillNumber) String() string {
	return fmt.Sprintf("%s-%d", b.Prefix, b.Number)
}

func ParseBillNumber(s string) (BillNumber, error) {
	prefix, num, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found || prefix == "" {
		return BillNumber{}, fmt.Errorf("bill number %q: expected <prefix>-<number>", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return BillNumber{}, fmt.Errorf("bill number %q: %w", s, err)
	}
	return BillNumber{Prefix: strings.ToUpper(prefix), Number: n}, nil
}

func BillProgressUrl(s Session, bill BillNumber) string {
	return fmt.Sprintf("https://www.parl.ca/LegisInfo/en/bill/%s/%s/json?view=progress", s, bill)
}

func BillJsonUrl(s Session, bill BillNumber) string {
	return fmt.Sprintf("%s/bill/%s/%s/json", LegisinfoBaseUrl, s, bill)
}

// BillTextFolder is the folder bill documents are published under, house bills
// numbered up to 200 are government bills, the rest are private members' bills.
func BillTextFolder(bill BillNumber) string {
	switch bill.Prefix {
	case "C":
		if bill.Number <= 200 {
			return "Government"
		}
		return "Private"
	case "S":
		return "Senate"
	}
	return "Private"
}

func BillTextUrl(s Session, bill BillNumber) string {
	return fmt.Sprintf(
		"%s/%d%d/%s/%s/%s_1/%s_E.xml",
		BillTextBaseUrl,
		s.Parliament, s.Session,
		BillTextFolder(bill),
		bill, bill, bill,
	)
}

// ChamberName maps LEGISinfo's OriginatingChamberId.
func ChamberName(chamberID string) string {
	if strings.TrimSpace(chamberID) == "1" {
		return ChamberHouse
	}
	return ChamberSenate
}
