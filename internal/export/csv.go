// Package export serializes inventories to the durable CSV format.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"sitediff/internal/domain"
	"sitediff/internal/inventory"
)

// combinedHeader is the persisted column contract for the combined export:
// FileRecord fields plus the two source tag fields, in this order.
var combinedHeader = []string{
	inventory.ColFileName,
	inventory.ColFilePath,
	inventory.ColFileSize,
	inventory.ColCreated,
	inventory.ColModified,
	inventory.ColLibrary,
	inventory.ColFileExtension,
	inventory.ColSourceSite,
	inventory.ColSourceURL,
}

// snapshotHeader is the per-source variant without the tag columns; files
// written with it round-trip through inventory.Read for later runs.
var snapshotHeader = combinedHeader[:7]

// WriteCSV emits one row per record with the combined header. Output is
// UTF-8 across all writer invocations.
func WriteCSV(w io.Writer, records []domain.FileRecord) error {
	return write(w, combinedHeader, records, true)
}

// WriteSnapshotCSV emits the untagged per-source format.
func WriteSnapshotCSV(w io.Writer, records []domain.FileRecord) error {
	return write(w, snapshotHeader, records, false)
}

func write(w io.Writer, header []string, records []domain.FileRecord, tagged bool) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: writing header: %v", domain.ErrExport, err)
	}

	for _, r := range records {
		row := []string{
			r.Name,
			r.Path,
			strconv.FormatInt(r.Size, 10),
			r.Created,
			r.Modified,
			r.Library,
			r.Extension,
		}
		if tagged {
			row = append(row, r.SourceSite, r.SourceURL)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: writing row for %s: %v", domain.ErrExport, r.Path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flushing: %v", domain.ErrExport, err)
	}
	return nil
}

// WriteFile writes the combined export to path, creating parent
// directories as needed.
func WriteFile(path string, records []domain.FileRecord) error {
	return writeFile(path, records, WriteCSV)
}

// WriteSnapshotFile writes a per-source snapshot to path.
func WriteSnapshotFile(path string, records []domain.FileRecord) error {
	return writeFile(path, records, WriteSnapshotCSV)
}

func writeFile(path string, records []domain.FileRecord, fn func(io.Writer, []domain.FileRecord) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrExport, filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", domain.ErrExport, path, err)
	}

	if err := fn(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", domain.ErrExport, path, err)
	}
	return nil
}
