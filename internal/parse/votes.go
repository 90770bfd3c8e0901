package parse

import (
	"encoding/xml"
	"parly-backend/internal/components/telemetry"
	"parly-backend/lib/textutil"
	"time"
)

const (
	report_votes_xml  = "votes.xml"
	report_votes_skip = "votes.skip"
)

// MaxTopicLength bounds Vote.Topic, the full text is kept in Subject.
const MaxTopicLength = 255

type MemberVote struct {
	ParliamentNumber int64
	SessionNumber    int64
	Date             time.Time
	Topic            string
	Subject          string
	Result           string
	// Value is the member's vote, ex. Yea, Nay, Paired.
	Value          string
	DivisionNumber *int64
}

type xmlMemberVote struct {
	ParliamentNumber        field
	SessionNumber           field
	DecisionEventDateTime   field
	DecisionDivisionSubject field
	DecisionResultName      field
	VoteValueName           field
	DecisionDivisionNumber  field
}

// ParseVotes parses a member's votes/xml payload, votes missing their
// parliament, session, date or value are skipped.
func ParseVotes(tel telemetry.API, body []byte) []MemberVote {
	var votes []MemberVote
	err := walkXML(body, func(d *xml.Decoder, _ []string, start xml.StartElement) (bool, error) {
		if start.Name.Local != "MemberVote" {
			return false, nil
		}
		var v xmlMemberVote
		if err := d.DecodeElement(&v, &start); err != nil {
			return true, err
		}

		parliament, okParliament := v.ParliamentNumber.Int()
		session, okSession := v.SessionNumber.Int()
		if !okParliament || !okSession || v.VoteValueName.Empty() {
			tel.ReportDebug(report_votes_skip, "missing required fields")
			return true, nil
		}
		date, err := ParseDate(v.DecisionEventDateTime.String())
		if err != nil {
			tel.ReportDebug(report_votes_skip, err)
			return true, nil
		}

		subject := v.DecisionDivisionSubject.String()
		if subject == "" {
			subject = "Unknown"
		}
		result := v.DecisionResultName.String()
		if result == "" {
			result = "Unknown"
		}

		votes = append(votes, MemberVote{
			ParliamentNumber: parliament,
			SessionNumber:    session,
			Date:             date,
			Topic:            textutil.Truncate(subject, MaxTopicLength),
			Subject:          subject,
			Result:           result,
			Value:            v.VoteValueName.String(),
			DivisionNumber:   v.DecisionDivisionNumber.OptionalInt(),
		})
		return true, nil
	})
	if err != nil {
		tel.ReportWarning(report_votes_xml, err)
		return nil
	}
	return votes
}
