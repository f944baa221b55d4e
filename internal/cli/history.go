package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sitediff/internal/service"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent comparison runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")

	return cmd
}

func runHistory(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := service.NewCompareService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	records, err := svc.History(limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No comparison runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSOURCES\tSTATUS\tONLY A\tONLY B\tBOTH\tREPORT")
	for _, r := range records {
		when := r.StartTime.Local().Format("2006-01-02 15:04")
		sources := r.SourceA + " vs " + r.SourceB
		detail := r.ReportPath
		if r.Status == "failed" {
			detail = r.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			when, sources, r.Status, r.OnlyInA, r.OnlyInB, r.Both, detail)
	}
	return w.Flush()
}
