package signature

import (
	"database/sql"
	"parly-backend/internal/db"
	"parly-backend/internal/parse"
)

// Role is keyed on (member, role type, start date, parliament, session,
// committee, organization). End dates, titles and association role types are
// attributes, a change in them does not make a new role.
func Role(memberID int64, r parse.Role) Signature {
	return New(
		Int(memberID),
		Text(string(r.Type)),
		Date(r.FromDate),
		OptionalInt(r.ParliamentNumber),
		OptionalInt(r.SessionNumber),
		Text(r.CommitteeName),
		Text(r.OrganizationName),
	)
}

func StoredRole(memberID int64, r db.ListRoleKeysRow) Signature {
	return New(
		Int(memberID),
		Text(r.RoleType),
		StoredDate(r.FromDate),
		StoredInt(r.ParliamentNumber),
		StoredInt(r.SessionNumber),
		Text(r.CommitteeName),
		Text(r.OrganizationName),
	)
}

func BillProgress(billID int64, s parse.ProgressStage) Signature {
	return New(Int(billID), Text(s.Status), Date(&s.Date))
}

func StoredBillProgress(billID int64, r db.ListProgressKeysRow) Signature {
	return New(Int(billID), Text(r.Status), StoredDate(r.ProgressDate))
}

// Vote identifies a division, members' participations hang off it.
func Vote(v parse.MemberVote) Signature {
	return New(Int(v.ParliamentNumber), Int(v.SessionNumber), Date(&v.Date), Text(v.Topic))
}

func StoredVote(r db.ListMemberVoteKeysRow) Signature {
	return New(Int(r.ParliamentNumber), Int(r.SessionNumber), StoredDate(r.VoteDate), Text(r.VoteTopic))
}

func VoteParticipant(voteID, memberID int64) Signature {
	return New(Int(voteID), Int(memberID))
}

// BillNumber is the (number, parliament, session) key of a bill.
func BillNumber(number string, parliament, session int64) Signature {
	return New(Text(number), Int(parliament), Int(session))
}

// BillLegisinfo is the LEGISinfo id key of a bill, it is empty when the id is
// unknown so callers should fall back to BillNumber.
func BillLegisinfo(id sql.NullInt64) Signature {
	if !id.Valid || id.Int64 == 0 {
		return ""
	}
	return New(Text("legisinfo"), Int(id.Int64))
}

// BillSet tracks bills by both of their keys.
type BillSet struct {
	byNumber    *Set
	byLegisinfo *Set
}

func NewBillSet() *BillSet {
	return &BillSet{byNumber: NewSet(), byLegisinfo: NewSet()}
}

func (s *BillSet) Has(legisinfoID sql.NullInt64, number string, parliament, session int64) bool {
	if sig := BillLegisinfo(legisinfoID); sig != "" && s.byLegisinfo.Has(sig) {
		return true
	}
	return s.byNumber.Has(BillNumber(number, parliament, session))
}

// Add returns false if the bill was already known under either key.
func (s *BillSet) Add(legisinfoID sql.NullInt64, number string, parliament, session int64) bool {
	if s.Has(legisinfoID, number, parliament, session) {
		return false
	}
	if sig := BillLegisinfo(legisinfoID); sig != "" {
		s.byLegisinfo.Add(sig)
	}
	s.byNumber.Add(BillNumber(number, parliament, session))
	return true
}

func (s *BillSet) AddStored(b db.Bill) {
	s.Add(b.LegisinfoBillID, b.BillNumber, b.ParliamentNumber, b.SessionNumber)
}

func (s *BillSet) Len() int {
	return s.byNumber.Len()
}
