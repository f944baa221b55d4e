// Package testutil holds shared helpers for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content under dir, creating
// intermediate directories as needed, and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteInventoryCSV writes a snapshot-format inventory CSV with the
// given data rows and returns its path.
func WriteInventoryCSV(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()

	content := "FileName,FilePath,FileSize,Created,Modified,Library,FileExtension\n"
	for _, row := range rows {
		content += row + "\n"
	}
	return WriteFile(t, dir, name, content)
}
