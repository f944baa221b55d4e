package domain

import "strings"

// FileRecord is the canonical representation of one inventoried file.
// Records are created once per traversal run and never mutated afterwards.
type FileRecord struct {
	// Name is the leaf file name
	Name string

	// Path is the server-relative path; unique key within one source's
	// inventory and the join key for reconciliation across sources
	Path string

	// Size in bytes
	Size int64

	// Created and Modified are kept verbatim as received from the source.
	// Comparison is exact string equality; two renderings of the same
	// instant with different precision or offset count as a mismatch.
	Created  string
	Modified string

	// Library is the containing collection/library name within the source
	Library string

	// Extension is derived from Name (substring after the last dot)
	Extension string

	// SourceSite and SourceURL identify which inventory this record came
	// from; attached only when merging two inventories into one export set
	SourceSite string
	SourceURL  string
}

// ExtensionOf returns the file extension for a leaf name, without the dot.
// Returns "" when the name has no dot or ends with one.
func ExtensionOf(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

// Tagged returns a copy of the record with source identification attached.
func (r FileRecord) Tagged(site, url string) FileRecord {
	r.SourceSite = site
	r.SourceURL = url
	return r
}

// ComparisonRecord is the reconciliation output for a path present in both
// inventories. Name and Library are taken from the A-side record.
type ComparisonRecord struct {
	Path    string
	Name    string
	Library string

	SizeA int64
	SizeB int64

	ModifiedA string
	ModifiedB string

	SizeMatches     bool
	ModifiedMatches bool
}

// Result is the three-way classification produced by reconciliation.
// All three slices are sorted lexicographically by Path (case-sensitive,
// byte order); the report renderer depends on this for diffable output.
type Result struct {
	OnlyInA []FileRecord
	OnlyInB []FileRecord
	Both    []ComparisonRecord
}

// TotalA returns the number of distinct paths on side A.
func (r Result) TotalA() int { return len(r.OnlyInA) + len(r.Both) }

// TotalB returns the number of distinct paths on side B.
func (r Result) TotalB() int { return len(r.OnlyInB) + len(r.Both) }

// TotalUniquePaths returns |A| + |B| - |both|.
func (r Result) TotalUniquePaths() int {
	return len(r.OnlyInA) + len(r.OnlyInB) + len(r.Both)
}
