package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adventurelog/web/internal/loader"
)

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	var backendURL string

	cmd := &cobra.Command{
		Use:   "profile <uuid-or-username>",
		Short: "Show a public profile with its adventures and collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newEnv(backendURL, os.Stdout)
			if err != nil {
				return err
			}
			return runProfile(cmd.Context(), rt, args[0])
		},
	}

	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend URL or alias (defaults to PUBLIC_SERVER_URL, then the selected backend)")

	return cmd
}

func runProfile(ctx context.Context, rt *cliEnv, key string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ev, err := rt.event(ctx)
	if err != nil {
		return err
	}

	result := loader.New(rt.client, rt.log).LoadProfile(ev, key)
	if err := resultError(result); err != nil {
		return err
	}

	profile := result.(*loader.ProfilePage).Profile

	fmt.Fprintf(rt.out, "%s", profile.DisplayName())
	if profile.Username != "" {
		fmt.Fprintf(rt.out, " (@%s)", profile.Username)
	}
	fmt.Fprintln(rt.out)

	fmt.Fprintf(rt.out, "\nAdventures (%d):\n", len(profile.Adventures))
	for _, a := range profile.Adventures {
		fmt.Fprintf(rt.out, "  - %s\n", a.Name)
	}

	fmt.Fprintf(rt.out, "\nCollections (%d):\n", len(profile.Collections))
	for _, c := range profile.Collections {
		fmt.Fprintf(rt.out, "  - %s\n", c.Name)
	}

	return nil
}
