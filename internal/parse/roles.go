package parse

import (
	"encoding/xml"
	"parly-backend/internal/components/telemetry"
	"strings"
	"time"
)

const (
	report_roles_xml = "roles.xml"
)

// RoleType is the kind of a member's role, older payload variants are
// translated into one of these on ingest.
type RoleType string

const (
	RoleMemberOfParliament       RoleType = "MEMBER_OF_PARLIAMENT"
	RolePoliticalAffiliation     RoleType = "POLITICAL_AFFILIATION"
	RoleCommitteeMember          RoleType = "COMMITTEE_MEMBER"
	RoleParliamentaryAssociation RoleType = "PARLIAMENTARY_ASSOCIATION"
	RoleElectionCandidate        RoleType = "ELECTION_CANDIDATE"
	RoleParliamentarianOffice    RoleType = "PARLIAMENTARIAN_OFFICE"
)

var RoleTypes = []RoleType{
	RoleMemberOfParliament,
	RolePoliticalAffiliation,
	RoleCommitteeMember,
	RoleParliamentaryAssociation,
	RoleElectionCandidate,
	RoleParliamentarianOffice,
}

type Role struct {
	Type RoleType
	// Title is the office, association title or election type depending on Type.
	Title    string
	FromDate *time.Time
	ToDate   *time.Time

	ParliamentNumber *int64
	SessionNumber    *int64

	CommitteeName       string
	OrganizationName    string
	AffiliationRoleName string

	ConstituencyName string
	ProvinceName     string
	PartyName        string
	ElectionResult   string

	// only set on MEMBER_OF_PARLIAMENT roles
	FirstName string
	LastName  string
}

type languageField struct {
	Language string `xml:"Language,attr"`
	Value    string `xml:",chardata"`
}

type xmlMemberOfParliamentRole struct {
	PersonOfficialFirstName           field
	PersonOfficialLastName            field
	ConstituencyName                  field
	ConstituencyProvinceTerritoryName field
	ParliamentNumber                  field
	FromDateTime                      field
	ToDateTime                        field
}

type xmlCaucusMemberRole struct {
	CaucusShortName  field
	CaucusLongName   field
	ParliamentNumber field
	FromDateTime     field
	ToDateTime       field
}

type xmlCommitteeMemberRole struct {
	ParliamentNumber    field
	SessionNumber       field
	AffiliationRoleName field
	CommitteeName       field
	CommitteeNames      []languageField `xml:"CommitteeNames>CommitteeName"`
	FromDateTime        field
	ToDateTime          field
}

type xmlAssociationRole struct {
	AssociationMemberRoleType field
	Title                     field
	Organization              field
}

type xmlElectionCandidateRole struct {
	ElectionEventTypeName             field
	ElectionEndDate                   field
	ConstituencyName                  field
	ConstituencyProvinceTerritoryName field
	PoliticalPartyName                field
	ResolvedElectionResultTypeName    field
}

type xmlPositionRole struct {
	ParliamentNumber field
	PositionName     field
	OfficeLongName   field
	FromDateTime     field
	ToDateTime       field
}

func (r xmlCommitteeMemberRole) name() string {
	if !r.CommitteeName.Empty() {
		return r.CommitteeName.String()
	}
	for _, n := range r.CommitteeNames {
		if strings.EqualFold(n.Language, "en") {
			return strings.TrimSpace(n.Value)
		}
	}
	if len(r.CommitteeNames) > 0 {
		return strings.TrimSpace(r.CommitteeNames[0].Value)
	}
	return ""
}

// ParseRoles parses a member's roles/xml payload, malformed payloads are reported
// and produce no roles.
func ParseRoles(tel telemetry.API, body []byte) []Role {
	var roles []Role
	err := walkXML(body, func(d *xml.Decoder, _ []string, start xml.StartElement) (bool, error) {
		switch start.Name.Local {
		case "MemberOfParliamentRole":
			var r xmlMemberOfParliamentRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:             RoleMemberOfParliament,
				FromDate:         r.FromDateTime.Date(),
				ToDate:           r.ToDateTime.Date(),
				ParliamentNumber: r.ParliamentNumber.OptionalInt(),
				ConstituencyName: r.ConstituencyName.String(),
				ProvinceName:     r.ConstituencyProvinceTerritoryName.String(),
				FirstName:        r.PersonOfficialFirstName.String(),
				LastName:         r.PersonOfficialLastName.String(),
			})
		case "CaucusMemberRole":
			var r xmlCaucusMemberRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:             RolePoliticalAffiliation,
				FromDate:         r.FromDateTime.Date(),
				ToDate:           r.ToDateTime.Date(),
				ParliamentNumber: r.ParliamentNumber.OptionalInt(),
				PartyName:        first(r.CaucusShortName, r.CaucusLongName).String(),
			})
		case "CommitteeMemberRole":
			var r xmlCommitteeMemberRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:                RoleCommitteeMember,
				FromDate:            r.FromDateTime.Date(),
				ToDate:              r.ToDateTime.Date(),
				ParliamentNumber:    r.ParliamentNumber.OptionalInt(),
				SessionNumber:       r.SessionNumber.OptionalInt(),
				CommitteeName:       r.name(),
				AffiliationRoleName: r.AffiliationRoleName.String(),
			})
		case "ParliamentaryAssociationsandInterparliamentaryGroupRole":
			var r xmlAssociationRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:                RoleParliamentaryAssociation,
				Title:               r.Title.String(),
				OrganizationName:    r.Organization.String(),
				AffiliationRoleName: r.AssociationMemberRoleType.String(),
			})
		case "ElectionCandidateRole":
			var r xmlElectionCandidateRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:             RoleElectionCandidate,
				Title:            r.ElectionEventTypeName.String(),
				FromDate:         r.ElectionEndDate.Date(),
				ConstituencyName: r.ConstituencyName.String(),
				ProvinceName:     r.ConstituencyProvinceTerritoryName.String(),
				PartyName:        r.PoliticalPartyName.String(),
				ElectionResult:   r.ResolvedElectionResultTypeName.String(),
			})
		case "ParliamentaryPositionRole", "ParliamentarianOfficeRole":
			var r xmlPositionRole
			if err := d.DecodeElement(&r, &start); err != nil {
				return true, err
			}
			roles = append(roles, Role{
				Type:             RoleParliamentarianOffice,
				Title:            first(r.PositionName, r.OfficeLongName).String(),
				FromDate:         r.FromDateTime.Date(),
				ToDate:           r.ToDateTime.Date(),
				ParliamentNumber: r.ParliamentNumber.OptionalInt(),
			})
		default:
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		tel.ReportWarning(report_roles_xml, err)
		return nil
	}
	return roles
}

// MemberName returns the official name from the first MEMBER_OF_PARLIAMENT role.
func MemberName(roles []Role) (firstName, lastName string, ok bool) {
	for _, r := range roles {
		if r.Type == RoleMemberOfParliament && r.FirstName != "" && r.LastName != "" {
			return r.FirstName, r.LastName, true
		}
	}
	return "", "", false
}
