package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adventurelog/web/internal/loader"
)

// NewListCmd creates the users command
func NewListCmd() *cobra.Command {
	var backendURL string

	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"ls"},
		Short:   "List users with public profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newEnv(backendURL, os.Stdout)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), rt)
		},
	}

	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend URL or alias (defaults to PUBLIC_SERVER_URL, then the selected backend)")

	return cmd
}

func runList(ctx context.Context, rt *cliEnv) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ev, err := rt.event(ctx)
	if err != nil {
		return err
	}

	result := loader.New(rt.client, rt.log).LoadUsers(ev)
	if err := resultError(result); err != nil {
		return err
	}

	users := result.(*loader.UsersPage).Props.Users
	if len(users) == 0 {
		fmt.Fprintln(rt.out, "No users found with public profiles.")
		return nil
	}

	fmt.Fprintf(rt.out, "Public profiles on %s:\n\n", rt.backendKey())

	w := tabwriter.NewWriter(rt.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUSERNAME\tPROFILE")
	fmt.Fprintln(w, "────\t────────\t───────")

	for _, user := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			user.DisplayName(),
			user.Username,
			user.Key(),
		)
	}

	return w.Flush()
}
