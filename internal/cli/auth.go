package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sitediff/internal/domain"
	"sitediff/internal/provider/gdrive"
)

// NewAuthCommand creates the auth command
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth <endpoint>",
		Short: "Authorize access to a Google Drive endpoint",
		Long: `Auth runs the OAuth2 authorization flow for a gdrive endpoint and
stores the resulting token for later compare runs.`,
		Args: cobra.ExactArgs(1),
		RunE: runAuth,
	}
	return cmd
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ep, err := cfg.GetEndpoint(args[0])
	if err != nil {
		return err
	}
	if ep.Type != domain.EndpointGDrive {
		return fmt.Errorf("endpoint %s is not a gdrive endpoint", ep.Name)
	}

	auth := gdrive.NewAuthenticator(
		ep.Credentials["client_id"],
		ep.Credentials["client_secret"],
		ep.Credentials["token_path"],
	)

	url, _, err := auth.AuthCodeURL()
	if err != nil {
		return fmt.Errorf("failed to build authorization url: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Open the following URL in your browser and authorize access:\n\n%s\n\n", url)
	fmt.Fprint(os.Stdout, "Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("authorization code cannot be empty")
	}

	ctx := cmd.Context()
	if _, err := auth.Exchange(ctx, code); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Token saved to %s\n", auth.TokenPath())
	return nil
}
