package parse

import (
	"encoding/xml"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/parliament"
)

const (
	report_bills_xml  = "bills.xml"
	report_bills_skip = "bills.skip"
)

// StatusIntroduced is the status of a bill that has not completed a major stage.
const StatusIntroduced = "Introduced"

// Bill is an entry of the LEGISinfo bills/xml listing.
type Bill struct {
	LegisinfoID      int64
	Number           string
	ParliamentNumber int64
	SessionNumber    int64
	ShortTitle       string
	LongTitle        string
	Status           string
	Chamber          string
	// Sponsor is the raw sponsor text, ex. "Sen. Yuen Pau Woo", "Hon. John Doe".
	Sponsor string
}

type xmlBill struct {
	BillId                      field
	BillNumberFormatted         field
	ParliamentNumber            field
	SessionNumber               field
	ShortTitleEn                field
	LongTitleEn                 field
	LatestCompletedMajorStageEn field
	OriginatingChamberId        field
	SponsorEn                   field
}

// ParseBills parses a LEGISinfo bills/xml payload. Bills missing their identity
// or belonging to a parliament outside the supported range are skipped.
func ParseBills(tel telemetry.API, body []byte) []Bill {
	var bills []Bill
	err := walkXML(body, func(d *xml.Decoder, _ []string, start xml.StartElement) (bool, error) {
		if start.Name.Local != "Bill" {
			return false, nil
		}
		var b xmlBill
		if err := d.DecodeElement(&b, &start); err != nil {
			return true, err
		}

		id, okID := b.BillId.Int()
		parl, okParl := b.ParliamentNumber.Int()
		sess, okSess := b.SessionNumber.Int()
		if !okID || !okParl || !okSess || b.BillNumberFormatted.Empty() {
			tel.ReportDebug(report_bills_skip, "missing required fields", b.BillNumberFormatted.String())
			return true, nil
		}
		if !parliament.ValidParliament(parl) {
			tel.ReportWarning(report_bills_skip, "parliament out of range", b.BillNumberFormatted.String(), parl)
			return true, nil
		}

		status := b.LatestCompletedMajorStageEn.String()
		if status == "" {
			status = StatusIntroduced
		}

		bills = append(bills, Bill{
			LegisinfoID:      id,
			Number:           b.BillNumberFormatted.String(),
			ParliamentNumber: parl,
			SessionNumber:    sess,
			ShortTitle:       b.ShortTitleEn.String(),
			LongTitle:        b.LongTitleEn.String(),
			Status:           status,
			Chamber:          parliament.ChamberName(b.OriginatingChamberId.String()),
			Sponsor:          b.SponsorEn.String(),
		})
		return true, nil
	})
	if err != nil {
		tel.ReportWarning(report_bills_xml, err)
		return nil
	}
	return bills
}
