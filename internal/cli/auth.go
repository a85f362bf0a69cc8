package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/config"
)

// tokenPreviewChars is how much of a token `auth status` reveals.
const tokenPreviewChars = 4

// newAuthCmd creates the auth command group for the stored API token.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
		Long: `Manage the bearer token sent to the catalog API.

The token is stored in ~/.catalogview/token with owner-only permissions.
CATALOGVIEW_TOKEN takes precedence over the stored token.`,
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token",
		Example: `  # Pass the token directly
  catalogview auth login --token "$TOKEN"

  # Pipe it in
  echo "$TOKEN" | catalogview auth login

  # Type it without echo
  catalogview auth login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(token) == "" {
				read, err := ReadToken(cmd.ErrOrStderr(), cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = read
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			path, _ := config.TokenFilePath()
			cmd.Printf("Token saved to %s\n", path)
			if os.Getenv(config.EnvToken) != "" {
				cmd.PrintErrf("Note: %s is set and overrides the stored token\n", config.EnvToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token (read from stdin when omitted)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			cmd.Println("Token removed")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an API token is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			if token == "" {
				cmd.Println("Not logged in")
				return nil
			}

			source := "token file"
			if os.Getenv(config.EnvToken) != "" {
				source = config.EnvToken
			}
			cmd.Printf("Logged in (token %s, from %s)\n", maskToken(token), source)
			return nil
		},
	}
}

// maskToken shows only the last few characters of token.
func maskToken(token string) string {
	if len(token) <= tokenPreviewChars {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-tokenPreviewChars) + token[len(token)-tokenPreviewChars:]
}
