package parse

import (
	"encoding/xml"
	"fmt"
	"parly-backend/internal/components/telemetry"
	"strings"
	"time"
)

const (
	report_bill_document = "bill_document.xml"
)

// BillDocument holds the fields of a published bill's text that LEGISinfo's
// listings lack.
type BillDocument struct {
	// Summary includes the preamble as "\n\nPreamble: ..." when both exist.
	Summary string
	// Sponsor is the display name, ex. "Mr. Davies".
	Sponsor          string
	BillType         string
	IntroductionDate *time.Time
}

type xmlDate struct {
	YYYY field
	MM   field
	DD   field
}

func (d xmlDate) date() *time.Time {
	year, okYear := d.YYYY.Int()
	month, okMonth := d.MM.Int()
	day, okDay := d.DD.Int()
	if !okYear || !okMonth || !okDay || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	return &t
}

// ParseBillDocument parses a bill's _E.xml document, ok is false when the
// document could not be parsed at all.
func ParseBillDocument(tel telemetry.API, body []byte) (BillDocument, bool) {
	var out BillDocument
	var summary string
	var preamble []string
	sawDate := false

	err := walkXML(body, func(d *xml.Decoder, path []string, start xml.StartElement) (bool, error) {
		if len(path) == 0 {
			for _, a := range start.Attr {
				if a.Name.Local == "bill-type" {
					out.BillType = strings.TrimSpace(a.Value)
				}
			}
			return false, nil
		}

		switch {
		case start.Name.Local == "Text" && hasSuffix(path, "Summary", "Provision"):
			var f field
			if err := d.DecodeElement(&f, &start); err != nil {
				return true, err
			}
			if summary == "" {
				summary = f.String()
			}
			return true, nil
		case start.Name.Local == "Text" && hasSuffix(path, "Preamble", "Provision"):
			var f field
			if err := d.DecodeElement(&f, &start); err != nil {
				return true, err
			}
			if !f.Empty() {
				preamble = append(preamble, f.String())
			}
			return true, nil
		case start.Name.Local == "BillSponsor":
			var f field
			if err := d.DecodeElement(&f, &start); err != nil {
				return true, err
			}
			if out.Sponsor == "" {
				out.Sponsor = strings.Join(strings.Fields(f.String()), " ")
			}
			return true, nil
		case start.Name.Local == "Date" && hasSuffix(path, "BillHistory", "Stages") && !sawDate:
			var date xmlDate
			if err := d.DecodeElement(&date, &start); err != nil {
				return true, err
			}
			sawDate = true
			out.IntroductionDate = date.date()
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		tel.ReportWarning(report_bill_document, err)
		return BillDocument{}, false
	}

	joined := strings.Join(preamble, " ")
	switch {
	case summary != "" && joined != "":
		out.Summary = fmt.Sprintf("%s\n\nPreamble: %s", summary, joined)
	case summary != "":
		out.Summary = summary
	default:
		out.Summary = joined
	}
	return out, true
}
