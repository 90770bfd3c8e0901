package db

import "database/sql"

type Member struct {
	MemberID     int64
	Name         string
	FirstName    string
	LastName     string
	Slug         string
	Constituency string
	ProvinceName string
	Party        string
	UpdatedAt    string
}

type Role struct {
	RoleID              int64
	MemberID            int64
	RoleType            string
	Title               string
	FromDate            string
	ToDate              string
	ParliamentNumber    int64
	SessionNumber       int64
	CommitteeName       string
	OrganizationName    string
	AffiliationRoleName string
	ConstituencyName    string
	ProvinceName        string
	PartyName           string
	ElectionResult      string
}

type Vote struct {
	VoteID           int64
	ParliamentNumber int64
	SessionNumber    int64
	VoteDate         string
	VoteTopic        string
	DecisionResult   string
	DivisionNumber   int64
}

type VoteParticipant struct {
	VoteID    int64
	MemberID  int64
	VoteValue string
}

type Senator struct {
	SenatorID      int64
	Name           string
	Affiliation    string
	Province       string
	NominationDate string
	RetirementDate string
	AppointedBy    string
}

type Bill struct {
	BillID           int64
	LegisinfoBillID  sql.NullInt64
	BillNumber       string
	ParliamentNumber int64
	SessionNumber    int64
	ShortTitle       string
	LongTitle        string
	Status           string
	Chamber          string
	SponsorID        sql.NullInt64
	SenatorSponsorID sql.NullInt64
	SponsorName      string
	Summary          string
	BillType         string
	IntroductionDate string
}

type BillProgress struct {
	ProgressID   int64
	BillID       int64
	Status       string
	ProgressDate string
	Chamber      string
	State        string
}

type Checkpoint struct {
	Job      string
	EntityID int64
	SavedAt  string
}
