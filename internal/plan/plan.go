package plan

import (
	"github.com/brodkewitz/brphoto-metadata-tools/internal/catalog"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/manifest"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/resolve"
)

// Entry pairs one input record with its resolution outcome.
type Entry struct {
	Record  manifest.Record
	Outcome resolve.Outcome
}

// Summary counts plan entries by outcome.
type Summary struct {
	Records       int
	Matched       int
	WriteExisting int
	CreateSidecar int
	Ambiguous     int
	NotFound      int
}

// Plan holds every entry in input order plus the outcome counts.
type Plan struct {
	Entries []Entry
	Summary Summary
}

// Build resolves every record against the catalog and returns the plan.
// Entries keep the input order; the catalog is read only.
func Build(records []manifest.Record, cat *catalog.Catalog) *Plan {
	p := &Plan{Entries: make([]Entry, 0, len(records))}
	p.Summary.Records = len(records)

	for _, rec := range records {
		outcome := resolve.Resolve(rec.Stem, cat.Lookup(rec.Stem))
		p.Entries = append(p.Entries, Entry{Record: rec, Outcome: outcome})

		switch outcome.Status {
		case resolve.StatusMatched:
			p.Summary.Matched++
			switch outcome.Action {
			case resolve.ActionWriteExisting:
				p.Summary.WriteExisting++
			case resolve.ActionCreateSidecar:
				p.Summary.CreateSidecar++
			}
		case resolve.StatusAmbiguous:
			p.Summary.Ambiguous++
		case resolve.StatusNotFound:
			p.Summary.NotFound++
		}
	}

	return p
}

// MatchedEntries returns the entries the write phase processes, in input
// order. Ambiguous and not-found entries are excluded.
func (p *Plan) MatchedEntries() []Entry {
	matched := make([]Entry, 0, p.Summary.Matched)
	for _, entry := range p.Entries {
		if entry.Outcome.Status == resolve.StatusMatched {
			matched = append(matched, entry)
		}
	}
	return matched
}
