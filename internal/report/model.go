// Package report assembles reconciliation output into the model consumed
// by the renderers and the export writer, and renders it.
package report

import (
	"time"

	"github.com/google/uuid"

	"sitediff/internal/domain"
)

// SourceInfo identifies one compared site in the report.
type SourceInfo struct {
	Name string
	URL  string
}

// Summary holds the headline counts for a comparison run.
type Summary struct {
	TotalA             int
	TotalB             int
	TotalUniquePaths   int
	OnlyInA            int
	OnlyInB            int
	InBoth             int
	SizeMismatches     int
	ModifiedMismatches int
}

// Model is the complete, renderer-independent report. It is a plain data
// structure; renderers are stateless functions over it.
type Model struct {
	RunID       string
	GeneratedAt time.Time

	SourceA SourceInfo
	SourceB SourceInfo

	Summary Summary

	OnlyInA []domain.FileRecord
	OnlyInB []domain.FileRecord
	Both    []domain.ComparisonRecord

	// Combined is the raw, source-tagged union of both inventories: all
	// A records first, then all B records. Not deduplicated; kept for
	// audit/export, distinct from the reconciled sets above.
	Combined []domain.FileRecord
}

// Assemble builds the report model from a reconciliation result and the
// two raw inventories the result was computed from.
func Assemble(res domain.Result, a, b []domain.FileRecord, srcA, srcB SourceInfo) *Model {
	m := &Model{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		SourceA:     srcA,
		SourceB:     srcB,
		OnlyInA:     res.OnlyInA,
		OnlyInB:     res.OnlyInB,
		Both:        res.Both,
	}

	m.Summary = Summary{
		TotalA:           res.TotalA(),
		TotalB:           res.TotalB(),
		TotalUniquePaths: res.TotalUniquePaths(),
		OnlyInA:          len(res.OnlyInA),
		OnlyInB:          len(res.OnlyInB),
		InBoth:           len(res.Both),
	}
	for _, c := range res.Both {
		if !c.SizeMatches {
			m.Summary.SizeMismatches++
		}
		if !c.ModifiedMatches {
			m.Summary.ModifiedMismatches++
		}
	}

	m.Combined = make([]domain.FileRecord, 0, len(a)+len(b))
	for _, r := range a {
		m.Combined = append(m.Combined, r.Tagged(srcA.Name, srcA.URL))
	}
	for _, r := range b {
		m.Combined = append(m.Combined, r.Tagged(srcB.Name, srcB.URL))
	}

	return m
}
