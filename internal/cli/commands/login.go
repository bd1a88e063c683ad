package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adventurelog/web/internal/cli/userconfig"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var backendURL, cookie, alias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the backend auth cookie for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newEnv(backendURL, os.Stdout)
			if err != nil {
				return err
			}

			// Check for environment variables (useful for CI/CD)
			if cookie == "" {
				cookie = os.Getenv("ADVENTURELOG_AUTH")
			}

			// Prompt for the cookie if not provided via flag or env var
			if cookie == "" {
				if !term.IsTerminal(int(syscall.Stdin)) {
					return fmt.Errorf("auth cookie is required in non-interactive mode (use --cookie flag or ADVENTURELOG_AUTH env var)")
				}
				fmt.Print("Auth cookie: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read auth cookie: %w", err)
				}
				fmt.Println() // New line after hidden input
				cookie = string(raw)
			}

			return runLogin(cmd.Context(), rt, cookie, alias)
		},
	}

	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend URL or alias (defaults to PUBLIC_SERVER_URL, then the selected backend)")
	cmd.Flags().StringVar(&cookie, "cookie", "", "Value of the 'auth' cookie (or set ADVENTURELOG_AUTH, will prompt if not provided)")
	cmd.Flags().StringVar(&alias, "alias", "", "Short name for this backend, usable with --backend and 'adventurelog use'")

	return cmd
}

// runLogin checks the cookie against the backend before saving it, then
// selects the backend for later commands
func runLogin(ctx context.Context, rt *cliEnv, cookie, alias string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cookie = strings.TrimPrefix(strings.TrimSpace(cookie), "auth=")
	if cookie == "" {
		return fmt.Errorf("auth cookie is empty")
	}

	user, err := rt.client.CurrentUser(ctx, cookie)
	if err != nil {
		return fmt.Errorf("backend rejected the auth cookie: %w", err)
	}

	if err := rt.tokens.SaveToken(rt.backendKey(), cookie); err != nil {
		return err
	}

	if err := rt.remember(userconfig.Backend{URL: rt.backendKey(), Alias: alias, Username: user.Username}); err != nil {
		return err
	}

	fmt.Fprintf(rt.out, "Logged in to %s as %s\n", rt.backendKey(), user.DisplayName())
	return nil
}
