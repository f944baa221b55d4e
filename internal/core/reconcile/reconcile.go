// Package reconcile classifies two file inventories into only-A, only-B and
// matched-with-comparison sets, keyed by server-relative path.
package reconcile

import (
	"sort"

	"sitediff/internal/domain"
)

// Reconcile computes the three-way classification of inventories a and b.
//
// It is a total, pure function: it performs no I/O, never fails on
// well-formed records, and holds no state between calls. Duplicate paths
// within one side are resolved last-write-wins (the later record in
// traversal order overwrites the earlier one in the lookup index).
// All three output collections are sorted by Path in byte order.
// O(|a| + |b|) time and auxiliary space.
func Reconcile(a, b []domain.FileRecord) domain.Result {
	// Lookups are directional, so each side gets its own index.
	indexB := indexByPath(b)
	indexA := indexByPath(a)

	var res domain.Result

	seenA := make(map[string]bool, len(a))
	for _, ra := range a {
		if seenA[ra.Path] {
			continue
		}
		seenA[ra.Path] = true

		// Last-write-wins within A: compare the surviving record,
		// not whichever occurrence the scan happens to be on.
		ra = indexA[ra.Path]

		rb, ok := indexB[ra.Path]
		if !ok {
			res.OnlyInA = append(res.OnlyInA, ra)
			continue
		}
		res.Both = append(res.Both, compare(ra, rb))
	}

	seenB := make(map[string]bool, len(b))
	for _, rb := range b {
		if seenB[rb.Path] {
			continue
		}
		seenB[rb.Path] = true

		if _, ok := indexA[rb.Path]; !ok {
			res.OnlyInB = append(res.OnlyInB, indexB[rb.Path])
		}
	}

	sortRecords(res.OnlyInA)
	sortRecords(res.OnlyInB)
	sort.Slice(res.Both, func(i, j int) bool {
		return res.Both[i].Path < res.Both[j].Path
	})

	return res
}

// compare forms the matched-pair record for a path present on both sides.
// Size equality is integer equality; Modified equality is exact string
// equality as received from the source, with no tolerance window and no
// timezone normalization.
func compare(a, b domain.FileRecord) domain.ComparisonRecord {
	return domain.ComparisonRecord{
		Path:            a.Path,
		Name:            a.Name,
		Library:         a.Library,
		SizeA:           a.Size,
		SizeB:           b.Size,
		ModifiedA:       a.Modified,
		ModifiedB:       b.Modified,
		SizeMatches:     a.Size == b.Size,
		ModifiedMatches: a.Modified == b.Modified,
	}
}

// Dedupe collapses duplicate paths within one inventory, last-write-wins.
// Order of first occurrence is preserved. The input is not modified.
func Dedupe(records []domain.FileRecord) []domain.FileRecord {
	index := indexByPath(records)

	out := make([]domain.FileRecord, 0, len(index))
	seen := make(map[string]bool, len(index))
	for _, r := range records {
		if seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		out = append(out, index[r.Path])
	}
	return out
}

// indexByPath builds the path lookup for one side. Later records overwrite
// earlier ones; this is the documented last-write-wins behavior, not an
// accident of map insertion.
func indexByPath(records []domain.FileRecord) map[string]domain.FileRecord {
	index := make(map[string]domain.FileRecord, len(records))
	for _, r := range records {
		index[r.Path] = r
	}
	return index
}

func sortRecords(records []domain.FileRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
}
