package parse

import (
	"encoding/json"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/parliament"
	"time"
)

const (
	report_bill_json   = "bill.json"
	report_recent_json = "recent.json"
	report_recent_skip = "recent.skip"
)

const (
	BillTypeGovernment    = "government"
	BillTypePrivatePublic = "private-public"
)

// BillDetail is a bill as described by LEGISinfo's json endpoints.
type BillDetail struct {
	LegisinfoID      int64
	Number           string
	ParliamentNumber int64
	SessionNumber    int64
	ShortTitle       string
	LongTitle        string
	Chamber          string
	SponsorName      string
	BillType         string
	IntroductionDate *time.Time
}

// Complete reports whether the identity fields are all present.
func (b BillDetail) Complete() bool {
	return b.LegisinfoID != 0 && b.Number != "" && b.ParliamentNumber != 0 && b.SessionNumber != 0
}

type jsonBill struct {
	Id                               int64  `json:"Id"`
	NumberCode                       string `json:"NumberCode"`
	ParliamentNumber                 int64  `json:"ParliamentNumber"`
	SessionNumber                    int64  `json:"SessionNumber"`
	ShortTitleEn                     string `json:"ShortTitleEn"`
	LongTitleEn                      string `json:"LongTitleEn"`
	IsHouseBill                      bool   `json:"IsHouseBill"`
	IsGovernmentBill                 bool   `json:"IsGovernmentBill"`
	SponsorPersonName                string `json:"SponsorPersonName"`
	PassedHouseFirstReadingDateTime  string `json:"PassedHouseFirstReadingDateTime"`
	PassedSenateFirstReadingDateTime string `json:"PassedSenateFirstReadingDateTime"`
	LatestBillEventDateTime          string `json:"LatestBillEventDateTime"`
}

func (b jsonBill) detail() BillDetail {
	chamber := parliament.ChamberSenate
	if b.IsHouseBill {
		chamber = parliament.ChamberHouse
	}
	billType := BillTypePrivatePublic
	if b.IsGovernmentBill {
		billType = BillTypeGovernment
	}

	var introduced *time.Time
	for _, candidate := range []string{
		b.PassedHouseFirstReadingDateTime,
		b.PassedSenateFirstReadingDateTime,
		b.LatestBillEventDateTime,
	} {
		date, err := ParseDate(candidate)
		if err == nil {
			introduced = &date
			break
		}
	}

	return BillDetail{
		LegisinfoID:      b.Id,
		Number:           b.NumberCode,
		ParliamentNumber: b.ParliamentNumber,
		SessionNumber:    b.SessionNumber,
		ShortTitle:       b.ShortTitleEn,
		LongTitle:        b.LongTitleEn,
		Chamber:          chamber,
		SponsorName:      b.SponsorPersonName,
		BillType:         billType,
		IntroductionDate: introduced,
	}
}

// ParseBillDetail parses a bill's /json payload, either a single object or a
// list holding it.
func ParseBillDetail(tel telemetry.API, body []byte) (BillDetail, bool) {
	var payload jsonBill
	err := unmarshalObjectOrFirst(body, &payload)
	if err != nil {
		tel.ReportWarning(report_bill_json, err)
		return BillDetail{}, false
	}
	return payload.detail(), true
}

// ParseRecentBills parses the recently introduced snapshot, bills missing
// identity fields are skipped.
func ParseRecentBills(tel telemetry.API, body []byte) []BillDetail {
	var payload []jsonBill
	err := json.Unmarshal(body, &payload)
	if err != nil {
		tel.ReportWarning(report_recent_json, err)
		return nil
	}

	out := make([]BillDetail, 0, len(payload))
	for _, b := range payload {
		detail := b.detail()
		if !detail.Complete() {
			tel.ReportWarning(report_recent_skip, "missing required fields", b.NumberCode)
			continue
		}
		out = append(out, detail)
	}
	return out
}
