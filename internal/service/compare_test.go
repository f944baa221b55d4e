package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sitediff/internal/config"
	"sitediff/internal/domain"
	"sitediff/internal/testutil"
)

// newTestService builds a service over two local-directory endpoints
// with all state kept inside the test temp dir.
func newTestService(t *testing.T) (*CompareService, *config.Config, string) {
	t.Helper()

	base := t.TempDir()
	rootA := filepath.Join(base, "site-a")
	rootB := filepath.Join(base, "site-b")

	testutil.WriteFile(t, rootA, "docs/handbook.pdf", "handbook-v1")
	testutil.WriteFile(t, rootA, "docs/roadmap.xlsx", "roadmap")
	testutil.WriteFile(t, rootA, "media/logo.png", "png-bytes")

	testutil.WriteFile(t, rootB, "docs/handbook.pdf", "handbook-v1")
	testutil.WriteFile(t, rootB, "docs/archive.zip", "zip-bytes")

	cfg := &config.Config{
		Endpoints: []domain.Endpoint{
			{Name: "alpha", Type: domain.EndpointLocal, Root: rootA},
			{Name: "beta", Type: domain.EndpointLocal, Root: rootB},
		},
		DataDir: filepath.Join(base, "data"),
		LockDir: filepath.Join(base, "lock"),
	}
	cfg.Output.Dir = filepath.Join(base, "out")

	svc, err := NewCompareService(cfg)
	if err != nil {
		t.Fatalf("NewCompareService: %v", err)
	}
	t.Cleanup(func() { svc.Close() })

	return svc, cfg, base
}

func TestRun_EndToEnd(t *testing.T) {
	svc, cfg, _ := newTestService(t)

	result, err := svc.Run(context.Background(), Options{
		EndpointA: "alpha",
		EndpointB: "beta",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	sum := result.Model.Summary
	if sum.TotalA != 3 || sum.TotalB != 2 {
		t.Errorf("totals = %d/%d, want 3/2", sum.TotalA, sum.TotalB)
	}
	if sum.OnlyInA != 2 || sum.OnlyInB != 1 || sum.InBoth != 1 {
		t.Errorf("classification = %d/%d/%d, want 2/1/1", sum.OnlyInA, sum.OnlyInB, sum.InBoth)
	}

	// The shared file has identical content, so sizes match.
	if !result.Model.Both[0].SizeMatches {
		t.Error("expected size match for identical shared file")
	}

	for _, path := range []string{result.ReportPath, result.ExportPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output %s missing: %v", path, err)
		}
		if !strings.HasPrefix(path, cfg.Output.Dir) {
			t.Errorf("output %s not under configured dir %s", path, cfg.Output.Dir)
		}
	}

	// Combined export carries every record from both sides.
	if len(result.Model.Combined) != 5 {
		t.Errorf("combined = %d records, want 5", len(result.Model.Combined))
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.Run(context.Background(), Options{EndpointA: "alpha", EndpointB: "beta"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	records, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history = %d records, want 1", len(records))
	}

	got := records[0]
	if got.Status != "success" {
		t.Errorf("status = %q", got.Status)
	}
	if got.RunID != result.Model.RunID {
		t.Errorf("run id = %q, want %q", got.RunID, result.Model.RunID)
	}
	if got.OnlyInA != 2 || got.OnlyInB != 1 || got.Both != 1 {
		t.Errorf("counts = %d/%d/%d", got.OnlyInA, got.OnlyInB, got.Both)
	}
}

func TestRun_FailureRecorded(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Run(context.Background(), Options{EndpointA: "alpha", EndpointB: "gamma"})
	if !errors.Is(err, domain.ErrEndpointNotFound) {
		t.Fatalf("err = %v, want ErrEndpointNotFound", err)
	}

	records, err := svc.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 1 || records[0].Status != "failed" {
		t.Fatalf("history = %+v, want one failed record", records)
	}
	if records[0].Error == "" {
		t.Error("failed record has no error message")
	}
}

func TestRun_DisplayNamesAndJSONFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.Run(context.Background(), Options{
		EndpointA:    "alpha",
		EndpointB:    "beta",
		DisplayNameA: "Production",
		DisplayNameB: "Staging",
		Format:       "json",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Model.SourceA.Name != "Production" || result.Model.SourceB.Name != "Staging" {
		t.Errorf("sources = %q/%q", result.Model.SourceA.Name, result.Model.SourceB.Name)
	}
	if !strings.HasSuffix(result.ReportPath, ".json") {
		t.Errorf("report path = %q, want .json", result.ReportPath)
	}
}

func TestRun_UnknownFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Run(context.Background(), Options{
		EndpointA: "alpha",
		EndpointB: "beta",
		Format:    "pdf",
	})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRun_SnapshotEndpoint(t *testing.T) {
	svc, cfg, base := newTestService(t)

	// First run produces a combined export that a snapshot endpoint can
	// replay; here we snapshot just side A via a dedicated run.
	first, err := svc.Run(context.Background(), Options{EndpointA: "alpha", EndpointB: "beta"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	svc.Close()

	cfg.Endpoints = append(cfg.Endpoints, domain.Endpoint{
		Name:     "frozen",
		Type:     domain.EndpointSnapshot,
		SiteURL:  "https://alpha.example.com",
		Snapshot: first.ExportPath,
	})
	cfg.DataDir = filepath.Join(base, "data2")
	cfg.LockDir = filepath.Join(base, "lock2")

	svc2, err := NewCompareService(cfg)
	if err != nil {
		t.Fatalf("NewCompareService: %v", err)
	}
	defer svc2.Close()

	result, err := svc2.Run(context.Background(), Options{EndpointA: "frozen", EndpointB: "beta"})
	if err != nil {
		t.Fatalf("Run with snapshot endpoint: %v", err)
	}

	// The combined export holds both sides, so the frozen side has 5
	// paths: the shared file collapses, alpha-only and beta-only stay.
	if result.Model.Summary.TotalA != 4 {
		t.Errorf("frozen total = %d, want 4", result.Model.Summary.TotalA)
	}
}

func TestRun_TempDirCleanedUp(t *testing.T) {
	svc, _, _ := newTestService(t)

	before := countTempRunDirs(t)
	if _, err := svc.Run(context.Background(), Options{EndpointA: "alpha", EndpointB: "beta"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := countTempRunDirs(t); got != before {
		t.Errorf("temp run dirs = %d, want %d", got, before)
	}
}

func countTempRunDirs(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "sitediff-run-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return len(matches)
}
