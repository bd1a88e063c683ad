package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var backendURL string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored auth cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newEnv(backendURL, os.Stdout)
			if err != nil {
				return err
			}
			return runLogout(rt)
		},
	}

	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend URL or alias (defaults to PUBLIC_SERVER_URL, then the selected backend)")

	return cmd
}

func runLogout(rt *cliEnv) error {
	if err := rt.tokens.DeleteToken(rt.backendKey()); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Logged out of %s\n", rt.backendKey())
	return nil
}
