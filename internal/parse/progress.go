package parse

import (
	"fmt"
	"parly-backend/internal/components/telemetry"
	"parly-backend/internal/parliament"
	"sort"
	"strings"
	"time"
)

const (
	report_progress_json = "progress.json"
	report_progress_skip = "progress.skip"
)

type ProgressStage struct {
	Status  string
	Date    time.Time
	Chamber string
	State   string
}

type jsonBillStage struct {
	BillStageName string `json:"BillStageName"`
	StateAsOfDate string `json:"StateAsOfDate"`
	State         any    `json:"State"`
	StateName     string `json:"StateName"`
}

type jsonBillProgress struct {
	BillStages struct {
		HouseBillStages  []jsonBillStage `json:"HouseBillStages"`
		SenateBillStages []jsonBillStage `json:"SenateBillStages"`
	} `json:"BillStages"`
}

func (s jsonBillStage) state() string {
	if s.StateName != "" {
		return s.StateName
	}
	switch v := s.State.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseProgress parses the ?view=progress json of a bill, house stages first.
// Stages without a usable date are dropped.
func ParseProgress(tel telemetry.API, body []byte) []ProgressStage {
	var payload jsonBillProgress
	err := unmarshalObjectOrFirst(body, &payload)
	if err != nil {
		tel.ReportWarning(report_progress_json, err)
		return nil
	}

	var out []ProgressStage
	add := func(stages []jsonBillStage, chamber string) {
		for _, s := range stages {
			date, err := ParseDate(s.StateAsOfDate)
			if err != nil {
				tel.ReportDebug(report_progress_skip, s.BillStageName, err)
				continue
			}
			status := strings.TrimSpace(s.BillStageName)
			if status == "" {
				status = "Unknown"
			}
			out = append(out, ProgressStage{
				Status:  status,
				Date:    date,
				Chamber: chamber,
				State:   s.state(),
			})
		}
	}
	add(payload.BillStages.HouseBillStages, parliament.ChamberHouse)
	add(payload.BillStages.SenateBillStages, parliament.ChamberSenate)
	return out
}

// LatestStage returns the stage with the latest date, ties go to the later stage
// in payload order.
func LatestStage(stages []ProgressStage) (ProgressStage, bool) {
	if len(stages) == 0 {
		return ProgressStage{}, false
	}
	sorted := make([]ProgressStage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted[len(sorted)-1], true
}
