package state

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func sampleRun(status string, start time.Time) RunRecord {
	return RunRecord{
		RunID:       "run-" + start.Format("150405"),
		SourceA:     "alpha",
		SourceB:     "beta",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Second),
		Status:      status,
		TotalA:      120,
		TotalB:      118,
		OnlyInA:     5,
		OnlyInB:     3,
		Both:        115,
		FullMatches: 110,
		ReportPath:  "reports/alpha-vs-beta.html",
		ExportPath:  "reports/alpha-vs-beta.csv",
	}
}

func TestSaveAndGetHistory(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := m.SaveRun(sampleRun("success", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	records, err := m.GetHistory("alpha", "beta", 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	// Newest first.
	if !records[0].StartTime.After(records[1].StartTime) {
		t.Errorf("history not ordered by start_time DESC")
	}

	got := records[0]
	if got.OnlyInA != 5 || got.OnlyInB != 3 || got.Both != 115 {
		t.Errorf("counts = %d/%d/%d", got.OnlyInA, got.OnlyInB, got.Both)
	}
	if got.ReportPath != "reports/alpha-vs-beta.html" {
		t.Errorf("report path = %q", got.ReportPath)
	}
}

func TestSaveRun_InvalidStatus(t *testing.T) {
	m := newTestManager(t)

	rec := sampleRun("partial", time.Now())
	if err := m.SaveRun(rec); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestGetHistory_FiltersBySourcePair(t *testing.T) {
	m := newTestManager(t)

	run := sampleRun("success", time.Now())
	if err := m.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	other := run
	other.SourceB = "gamma"
	if err := m.SaveRun(other); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	records, err := m.GetHistory("alpha", "beta", 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}

	all, err := m.GetAllHistory(10)
	if err != nil {
		t.Fatalf("GetAllHistory: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all records = %d, want 2", len(all))
	}
}

func TestGetLastSuccess(t *testing.T) {
	m := newTestManager(t)

	got, err := m.GetLastSuccess("alpha", "beta")
	if err != nil {
		t.Fatalf("GetLastSuccess: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil with empty history, got %+v", got)
	}

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ok := sampleRun("success", base)
	failed := sampleRun("failed", base.Add(time.Hour))
	failed.Error = "source unavailable"

	if err := m.SaveRun(ok); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := m.SaveRun(failed); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err = m.GetLastSuccess("alpha", "beta")
	if err != nil {
		t.Fatalf("GetLastSuccess: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.Status != "success" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.GetHistory("a", "b", 0); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := m.GetAllHistory(-1); err == nil {
		t.Error("expected error for negative limit")
	}
}
