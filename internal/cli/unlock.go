package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitediff/internal/service"
)

// NewUnlockCommand creates the unlock command
func NewUnlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Forcibly release a leftover run lock",
		Long: `Unlock removes the run lock file left behind by a crashed run.
Only use this when no comparison is actually running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc, err := service.NewCompareService(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.ForceUnlock(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Run lock released.")
			return nil
		},
	}
}
