package workflow

import (
	"time"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/plan"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/resolve"
)

// Write phase states recorded per matched entry.
const (
	WriteStatusPlanned      = "planned"
	WriteStatusWritten      = "written"
	WriteStatusSkipped      = "skipped"
	WriteStatusFailed       = "failed"
	WriteStatusNotAttempted = "not-attempted"
)

// RecordReport is the outcome of one input record, resolution and write
// phase combined.
type RecordReport struct {
	Line        int      `json:"line"`
	Name        string   `json:"name"`
	Stem        string   `json:"stem"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Action      string   `json:"action,omitempty"`
	Target      string   `json:"target,omitempty"`
	Anchor      string   `json:"anchor,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Candidates  []string `json:"candidates,omitempty"`
	WriteStatus string   `json:"write_status,omitempty"`
	WriteDetail string   `json:"write_detail,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Summary aggregates the run. Resolution counts cover every record; write
// counts cover only matched records on real runs.
type Summary struct {
	Records       int `json:"records"`
	Matched       int `json:"matched"`
	WriteExisting int `json:"write_existing"`
	CreateSidecar int `json:"create_sidecar"`
	Ambiguous     int `json:"ambiguous"`
	NotFound      int `json:"not_found"`
	Written       int `json:"written"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	NotAttempted  int `json:"not_attempted"`
	Scanned       int `json:"scanned"`
	Indexed       int `json:"indexed"`
}

// Report is the machine-readable result of one run. Records keep input
// order; timestamps are UTC.
type Report struct {
	RunID      string         `json:"run_id"`
	InputPath  string         `json:"input_path"`
	SearchDir  string         `json:"search_dir"`
	DryRun     bool           `json:"dry_run"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Summary    Summary        `json:"summary"`
	Records    []RecordReport `json:"records"`
}

func newReport(runID, inputPath, searchDir string, dryRun bool, p *plan.Plan) *Report {
	report := &Report{
		RunID:     runID,
		InputPath: inputPath,
		SearchDir: searchDir,
		DryRun:    dryRun,
		Records:   make([]RecordReport, 0, len(p.Entries)),
	}
	for _, entry := range p.Entries {
		rec := RecordReport{
			Line:        entry.Record.Line,
			Name:        entry.Record.Name,
			Stem:        entry.Record.Stem,
			Description: entry.Record.Description,
			Status:      string(entry.Outcome.Status),
			Target:      entry.Outcome.Target,
			Anchor:      entry.Outcome.Anchor,
			Reason:      entry.Outcome.Reason,
			Candidates:  entry.Outcome.Candidates,
		}
		if entry.Outcome.Action != resolve.ActionNone {
			rec.Action = string(entry.Outcome.Action)
		}
		report.Records = append(report.Records, rec)
	}
	return report
}

// Finalize normalizes timestamps to UTC and recomputes the summary from the
// records so the two can never disagree.
func (r *Report) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s Summary
	s.Scanned = r.Summary.Scanned
	s.Indexed = r.Summary.Indexed
	s.Records = len(r.Records)
	for _, rec := range r.Records {
		switch rec.Status {
		case string(resolve.StatusMatched):
			s.Matched++
			switch rec.Action {
			case string(resolve.ActionWriteExisting):
				s.WriteExisting++
			case string(resolve.ActionCreateSidecar):
				s.CreateSidecar++
			}
		case string(resolve.StatusAmbiguous):
			s.Ambiguous++
		case string(resolve.StatusNotFound):
			s.NotFound++
		}
		switch rec.WriteStatus {
		case WriteStatusWritten:
			s.Written++
		case WriteStatusSkipped:
			s.Skipped++
		case WriteStatusFailed:
			s.Failed++
		case WriteStatusNotAttempted:
			s.NotAttempted++
		}
	}
	r.Summary = s
}
