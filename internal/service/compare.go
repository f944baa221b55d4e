// Package service orchestrates a full comparison run: inventory both
// endpoints, reconcile, export the combined set, and render the report.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sitediff/internal/config"
	"sitediff/internal/core/reconcile"
	"sitediff/internal/domain"
	"sitediff/internal/export"
	"sitediff/internal/inventory"
	"sitediff/internal/lock"
	"sitediff/internal/logger"
	"sitediff/internal/provider"
	"sitediff/internal/report"
	"sitediff/internal/state"
)

// Options control a single comparison run.
type Options struct {
	// EndpointA and EndpointB name the configured endpoints to compare
	EndpointA string
	EndpointB string

	// DisplayNameA and DisplayNameB override the endpoint names in the
	// report; empty means use the endpoint name
	DisplayNameA string
	DisplayNameB string

	// OutputDir overrides the configured output directory
	OutputDir string

	// Format selects the report renderer: "html" (default) or "json"
	Format string

	// ProgressA and ProgressB, when non-nil, receive the running
	// discovery count during each traversal
	ProgressA func(discovered int)
	ProgressB func(discovered int)
}

// RunResult describes a completed comparison run.
type RunResult struct {
	Model      *report.Model
	ReportPath string
	ExportPath string
	Duration   time.Duration
}

// CompareService runs comparisons between two configured endpoints.
type CompareService struct {
	config *config.Config
	lock   *lock.RunLock
	store  *state.Manager
	log    logger.Logger
}

// NewCompareService creates a comparison service.
func NewCompareService(cfg *config.Config) (*CompareService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	runLock, err := lock.New(cfg.GetLockDir())
	if err != nil {
		return nil, fmt.Errorf("failed to create run lock: %w", err)
	}

	store, err := state.NewManager(cfg.GetDataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	return &CompareService{
		config: cfg,
		lock:   runLock,
		store:  store,
		log:    logger.With("component", "compare"),
	}, nil
}

// Close releases the service's resources.
func (s *CompareService) Close() error {
	return s.store.Close()
}

// History returns the most recent runs across all endpoint pairs.
func (s *CompareService) History(limit int) ([]state.RunRecord, error) {
	return s.store.GetAllHistory(limit)
}

// ForceUnlock forcibly releases a leftover run lock.
func (s *CompareService) ForceUnlock() error {
	return s.lock.ForceRelease()
}

// Run executes one full comparison. Only one run may be live at a time;
// a concurrent attempt fails with domain.ErrRunInProgress.
func (s *CompareService) Run(ctx context.Context, opts Options) (*RunResult, error) {
	label := fmt.Sprintf("%s vs %s", opts.EndpointA, opts.EndpointB)
	if err := s.lock.Acquire(label); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.lock.Release(); err != nil {
			s.log.Warn("failed to release run lock", "error", err)
		}
	}()

	start := time.Now()
	result, err := s.run(ctx, opts)
	duration := time.Since(start)

	record := state.RunRecord{
		SourceA:   opts.EndpointA,
		SourceB:   opts.EndpointB,
		StartTime: start,
		EndTime:   start.Add(duration),
	}
	if err != nil {
		record.RunID = "-"
		record.Status = "failed"
		record.Error = err.Error()
	} else {
		record.RunID = result.Model.RunID
		record.Status = "success"
		record.TotalA = result.Model.Summary.TotalA
		record.TotalB = result.Model.Summary.TotalB
		record.OnlyInA = result.Model.Summary.OnlyInA
		record.OnlyInB = result.Model.Summary.OnlyInB
		record.Both = result.Model.Summary.InBoth
		record.FullMatches = fullMatches(result.Model)
		record.ReportPath = result.ReportPath
		record.ExportPath = result.ExportPath
	}
	if saveErr := s.store.SaveRun(record); saveErr != nil {
		s.log.Warn("failed to save run history", "error", saveErr)
	}

	if err != nil {
		return nil, err
	}
	result.Duration = duration
	return result, nil
}

// run executes the pipeline stages. Inventories are snapshotted to a
// per-run temp directory so only one provider session is live at a
// time; the temp directory is removed no matter how the run ends.
func (s *CompareService) run(ctx context.Context, opts Options) (*RunResult, error) {
	epA, err := s.config.GetEndpoint(opts.EndpointA)
	if err != nil {
		return nil, err
	}
	epB, err := s.config.GetEndpoint(opts.EndpointB)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "sitediff-run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			s.log.Warn("failed to remove temp directory", "dir", tempDir, "error", err)
		}
	}()

	srcA, err := s.snapshotEndpoint(ctx, *epA, filepath.Join(tempDir, "a.csv"), opts.ProgressA)
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", epA.Name, err)
	}

	srcB, err := s.snapshotEndpoint(ctx, *epB, filepath.Join(tempDir, "b.csv"), opts.ProgressB)
	if err != nil {
		return nil, fmt.Errorf("inventory %s: %w", epB.Name, err)
	}

	recordsA, err := inventory.ReadFile(filepath.Join(tempDir, "a.csv"))
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", epA.Name, err)
	}
	recordsB, err := inventory.ReadFile(filepath.Join(tempDir, "b.csv"))
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", epB.Name, err)
	}

	s.log.Info("reconciling inventories",
		"source_a", epA.Name, "files_a", len(recordsA),
		"source_b", epB.Name, "files_b", len(recordsB))

	res := reconcile.Reconcile(recordsA, recordsB)

	if opts.DisplayNameA != "" {
		srcA.Name = opts.DisplayNameA
	}
	if opts.DisplayNameB != "" {
		srcB.Name = opts.DisplayNameB
	}

	model := report.Assemble(res, recordsA, recordsB, srcA, srcB)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = s.config.GetOutputDir()
	}

	stem := fmt.Sprintf("%s-vs-%s-%s", opts.EndpointA, opts.EndpointB,
		model.GeneratedAt.Format("20060102-150405"))

	exportPath := filepath.Join(outputDir, stem+".csv")
	if err := export.WriteFile(exportPath, model.Combined); err != nil {
		return nil, fmt.Errorf("export combined inventory: %w", err)
	}

	reportPath, err := s.render(model, outputDir, stem, opts.Format)
	if err != nil {
		return nil, err
	}

	s.log.Info("comparison complete",
		"run_id", model.RunID,
		"only_in_a", model.Summary.OnlyInA,
		"only_in_b", model.Summary.OnlyInB,
		"both", model.Summary.InBoth,
		"report", reportPath)

	return &RunResult{
		Model:      model,
		ReportPath: reportPath,
		ExportPath: exportPath,
	}, nil
}

// snapshotEndpoint traverses one endpoint and writes its inventory to a
// temp snapshot file. The provider session is closed before returning.
func (s *CompareService) snapshotEndpoint(ctx context.Context, ep domain.Endpoint, path string, progress func(int)) (report.SourceInfo, error) {
	var info report.SourceInfo

	p, err := provider.New(ctx, ep)
	if err != nil {
		return info, err
	}
	defer p.Close()

	records, err := p.Inventory(ctx, progress)
	if err != nil {
		return info, err
	}

	if err := export.WriteSnapshotFile(path, records); err != nil {
		return info, err
	}

	info = report.SourceInfo{Name: p.Name(), URL: p.SiteURL()}
	s.log.Debug("inventory snapshot written", "endpoint", ep.Name, "files", len(records))
	return info, nil
}

func (s *CompareService) render(model *report.Model, outputDir, stem, format string) (string, error) {
	switch format {
	case "", "html":
		path := filepath.Join(outputDir, stem+".html")
		if err := report.RenderHTMLFile(path, model); err != nil {
			return "", fmt.Errorf("render html report: %w", err)
		}
		return path, nil
	case "json":
		path := filepath.Join(outputDir, stem+".json")
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("render json report: %w", err)
		}
		defer f.Close()
		if err := report.RenderJSON(f, model); err != nil {
			return "", fmt.Errorf("render json report: %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

func fullMatches(m *report.Model) int {
	n := 0
	for _, c := range m.Both {
		if c.SizeMatches && c.ModifiedMatches {
			n++
		}
	}
	return n
}
