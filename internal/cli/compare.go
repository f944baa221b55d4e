package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"sitediff/internal/browser"
	"sitediff/internal/logger"
	"sitediff/internal/service"
)

type compareFlags struct {
	NameA      string
	NameB      string
	OutputDir  string
	Format     string
	OpenReport bool
}

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	var flags compareFlags

	cmd := &cobra.Command{
		Use:   "compare <endpoint-a> <endpoint-b>",
		Short: "Inventory two sites and report their differences",
		Long: `Compare traverses both configured endpoints, reconciles their file
inventories by path, exports the combined inventory as CSV and renders
a difference report.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.NameA, "name-a", "", "display name for the first site")
	cmd.Flags().StringVar(&flags.NameB, "name-b", "", "display name for the second site")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "output directory for report and export")
	cmd.Flags().StringVar(&flags.Format, "format", "html", "report format: html, json")
	cmd.Flags().BoolVar(&flags.OpenReport, "open", false, "open the report in the browser when done")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, flags compareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Shutdown()

	svc, err := service.NewCompareService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := service.Options{
		EndpointA:    args[0],
		EndpointB:    args[1],
		DisplayNameA: flags.NameA,
		DisplayNameB: flags.NameB,
		OutputDir:    flags.OutputDir,
		Format:       flags.Format,
	}

	if !globalFlags.Quiet {
		barA := newTraversalBar(args[0])
		barB := newTraversalBar(args[1])
		opts.ProgressA = func(n int) { barA.update(n) }
		opts.ProgressB = func(n int) { barB.update(n) }
		defer barA.finish()
		defer barB.finish()
	}

	result, err := svc.Run(ctx, opts)
	if err != nil {
		return err
	}

	sum := result.Model.Summary
	fmt.Fprintf(os.Stdout, "\nCompared %s (%d files) with %s (%d files) in %s\n",
		result.Model.SourceA.Name, sum.TotalA,
		result.Model.SourceB.Name, sum.TotalB,
		result.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stdout, "  only in %s: %d\n", result.Model.SourceA.Name, sum.OnlyInA)
	fmt.Fprintf(os.Stdout, "  only in %s: %d\n", result.Model.SourceB.Name, sum.OnlyInB)
	fmt.Fprintf(os.Stdout, "  in both:    %d (%d size mismatches, %d modified mismatches)\n",
		sum.InBoth, sum.SizeMismatches, sum.ModifiedMismatches)
	fmt.Fprintf(os.Stdout, "  report: %s\n", result.ReportPath)
	fmt.Fprintf(os.Stdout, "  export: %s\n", result.ExportPath)

	if flags.OpenReport || cfg.Output.OpenReport {
		if err := browser.Open(result.ReportPath); err != nil {
			logger.Get().Warn("failed to open report", "error", err)
		}
	}

	return nil
}

// traversalBar is a counter-style progress bar for traversals whose
// total is unknown up front.
type traversalBar struct {
	bar *pb.ProgressBar
}

var traversalTemplate pb.ProgressBarTemplate = `{{string . "prefix"}} {{counters . }} files discovered`

func newTraversalBar(name string) *traversalBar {
	bar := traversalTemplate.New(0)
	bar.Set("prefix", name)
	bar.SetWriter(os.Stderr)
	return &traversalBar{bar: bar}
}

func (t *traversalBar) update(n int) {
	if !t.bar.IsStarted() {
		t.bar.Start()
	}
	t.bar.SetCurrent(int64(n))
}

func (t *traversalBar) finish() {
	if t.bar.IsStarted() {
		t.bar.Finish()
	}
}
