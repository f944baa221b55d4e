// Package inventory turns raw tabular rows into validated FileRecord
// sequences. Each load is independent and side-effect free.
package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sitediff/internal/domain"
)

// Column names form the persisted CSV header contract. Renaming any of
// them breaks round-trip compatibility with previously exported data.
const (
	ColFileName      = "FileName"
	ColFilePath      = "FilePath"
	ColFileSize      = "FileSize"
	ColCreated       = "Created"
	ColModified      = "Modified"
	ColLibrary       = "Library"
	ColFileExtension = "FileExtension"
	ColSourceSite    = "SourceSite"
	ColSourceURL     = "SourceUrl"
)

// requiredColumns must be present and non-empty in every row.
var requiredColumns = []string{
	ColFileName,
	ColFilePath,
	ColFileSize,
	ColCreated,
	ColModified,
	ColLibrary,
}

// Row is one untyped record as decoded from a tabular source.
type Row map[string]string

// Load validates and converts rows into FileRecords. Row indexes in
// errors are zero-based over the data rows (the header is not counted).
// A single bad row fails the whole load; reconciliation needs a
// complete, trustworthy inventory.
func Load(rows []Row) ([]domain.FileRecord, error) {
	records := make([]domain.FileRecord, 0, len(rows))

	for i, row := range rows {
		rec, err := loadRow(i, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func loadRow(index int, row Row) (domain.FileRecord, error) {
	for _, col := range requiredColumns {
		if row[col] == "" {
			return domain.FileRecord{}, &domain.MalformedRecordError{Row: index, Field: col}
		}
	}

	size, err := strconv.ParseInt(row[ColFileSize], 10, 64)
	if err != nil || size < 0 {
		return domain.FileRecord{}, &domain.InvalidFieldError{
			Row:   index,
			Field: ColFileSize,
			Value: row[ColFileSize],
		}
	}

	rec := domain.FileRecord{
		Name:       row[ColFileName],
		Path:       row[ColFilePath],
		Size:       size,
		Created:    row[ColCreated],
		Modified:   row[ColModified],
		Library:    row[ColLibrary],
		Extension:  row[ColFileExtension],
		SourceSite: row[ColSourceSite],
		SourceURL:  row[ColSourceURL],
	}
	if rec.Extension == "" {
		rec.Extension = domain.ExtensionOf(rec.Name)
	}

	return rec, nil
}

// Read decodes a CSV inventory from r and loads it. The first record is
// the header; column order is not significant. Input must be UTF-8; a
// leading byte order mark is tolerated.
func Read(r io.Reader) ([]domain.FileRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading inventory header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading inventory row: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		rows = append(rows, row)
	}

	return Load(rows)
}

// ReadFile loads an inventory CSV from disk.
func ReadFile(path string) ([]domain.FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", path, err)
	}
	return records, nil
}
