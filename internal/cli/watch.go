package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sitediff/internal/logger"
	"sitediff/internal/scheduler"
	"sitediff/internal/service"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var interval time.Duration
	var flags compareFlags

	cmd := &cobra.Command{
		Use:   "watch <endpoint-a> <endpoint-b>",
		Short: "Compare two sites repeatedly on a fixed interval",
		Long: `Watch runs the compare pipeline on a fixed interval until interrupted.
Each cycle produces a fresh report and export; runs that overlap a
still-executing cycle are rejected by the run lock and counted as
failures.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, interval, flags)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 15*time.Minute, "time between comparison runs")
	cmd.Flags().StringVar(&flags.NameA, "name-a", "", "display name for the first site")
	cmd.Flags().StringVar(&flags.NameB, "name-b", "", "display name for the second site")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "output directory for reports and exports")
	cmd.Flags().StringVar(&flags.Format, "format", "html", "report format: html, json")

	return cmd
}

// compareOnSchedule adapts CompareService to the scheduler contract.
type compareOnSchedule struct {
	svc  *service.CompareService
	opts service.Options
	log  logger.Logger
}

func (c *compareOnSchedule) RunCompare(ctx context.Context) error {
	result, err := c.svc.Run(ctx, c.opts)
	if err != nil {
		c.log.Error("scheduled comparison failed", "error", err)
		return err
	}
	c.log.Info("scheduled comparison complete",
		"run_id", result.Model.RunID, "report", result.ReportPath)
	return nil
}

func runWatch(cmd *cobra.Command, args []string, interval time.Duration, flags compareFlags) error {
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

	runner := &compareOnSchedule{
		svc: svc,
		opts: service.Options{
			EndpointA:    args[0],
			EndpointB:    args[1],
			DisplayNameA: flags.NameA,
			DisplayNameB: flags.NameB,
			OutputDir:    flags.OutputDir,
			Format:       flags.Format,
		},
		log: logger.With("component", "watch"),
	}

	sched, err := scheduler.NewIntervalScheduler(scheduler.Config{Interval: interval}, runner)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Watching %s vs %s every %s. Press Ctrl+C to stop.\n",
		args[0], args[1], interval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Fprintln(os.Stdout, "Stopping...")
	cancel()
	if err := sched.Stop(); err != nil {
		logger.Get().Warn("scheduler stop", "error", err)
	}

	status := sched.Status()
	fmt.Fprintf(os.Stdout, "Ran %d comparisons (%d ok, %d failed).\n",
		status.TotalRuns, status.SuccessfulRuns, status.FailedRuns)

	return nil
}
