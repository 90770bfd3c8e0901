package parse

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/url"
	"parly-backend/internal/components/telemetry"
	"parly-backend/lib/htmlutil"
	"parly-backend/lib/textutil"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_member_search = "member_search.xml"
	report_member_links  = "member_links.html"
)

// SearchMember is an entry of the member search/xml listing.
type SearchMember struct {
	MemberID     int64
	FirstName    string
	LastName     string
	Constituency string
	Province     string
	Caucus       string
	FromDate     *time.Time
	ToDate       *time.Time
}

func (m SearchMember) Name() string {
	return textutil.CollapseSpace(m.FirstName + " " + m.LastName)
}

type xmlSearchMember struct {
	PersonId                          field
	PersonOfficialFirstName           field
	PersonOfficialLastName            field
	ConstituencyName                  field
	ConstituencyProvinceTerritoryName field
	CaucusShortName                   field
	FromDateTime                      field
	ToDateTime                        field
}

// ParseMemberSearch parses the member search/xml listing, entries without a
// person id or name are skipped.
func ParseMemberSearch(tel telemetry.API, body []byte) []SearchMember {
	var out []SearchMember
	err := walkXML(body, func(d *xml.Decoder, _ []string, start xml.StartElement) (bool, error) {
		if start.Name.Local != "MemberOfParliament" {
			return false, nil
		}
		var m xmlSearchMember
		if err := d.DecodeElement(&m, &start); err != nil {
			return true, err
		}
		id, ok := m.PersonId.Int()
		if !ok || m.PersonOfficialFirstName.Empty() || m.PersonOfficialLastName.Empty() {
			return true, nil
		}
		out = append(out, SearchMember{
			MemberID:     id,
			FirstName:    m.PersonOfficialFirstName.String(),
			LastName:     m.PersonOfficialLastName.String(),
			Constituency: m.ConstituencyName.String(),
			Province:     m.ConstituencyProvinceTerritoryName.String(),
			Caucus:       m.CaucusShortName.String(),
			FromDate:     m.FromDateTime.Date(),
			ToDate:       m.ToDateTime.Date(),
		})
		return true, nil
	})
	if err != nil {
		tel.ReportWarning(report_member_search, err)
		return nil
	}
	return out
}

// MemberLink is a member profile link found on the legacy html member list.
type MemberLink struct {
	MemberID int64
	Slug     string
	Name     string
}

// profile links look like /Members/en/ziad-aboultaif(89156) or, on older pages,
// /Members/en/ziad-aboultaif-89156
var memberHrefRegex = regexp.MustCompile(`(?i)/members/en/([^/()]+?)(?:\((\d+)\)|-(\d+))/?$`)

var ourcommonsBase, _ = url.Parse("https://www.ourcommons.ca")

// ParseMemberLinks extracts member profile links from the html member list, each
// member is returned once in page order.
func ParseMemberLinks(ctx context.Context, tel telemetry.API, body []byte) []MemberLink {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		tel.ReportWarning(report_member_links, err)
		return nil
	}

	seen := map[int64]bool{}
	var out []MemberLink
	for _, anchor := range htmlutil.GetAnchors(ctx, ourcommonsBase, doc.Find("a[href]")) {
		match := memberHrefRegex.FindStringSubmatch(anchor.Href.Path)
		if match == nil {
			continue
		}
		rawID := match[2]
		if rawID == "" {
			rawID = match[3]
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true

		slug := strings.ToLower(match[1])
		name := anchor.Name
		if name == "" {
			name = strings.ReplaceAll(slug, "-", " ")
		}
		out = append(out, MemberLink{
			MemberID: id,
			Slug:     slug,
			Name:     name,
		})
	}
	return out
}
