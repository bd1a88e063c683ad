package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/adventurelog/web/internal/cli/backendselect"
	"github.com/adventurelog/web/internal/cli/userconfig"
)

// NewUseCmd creates the use command
func NewUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [url-or-alias]",
		Short: "Select the backend to use for commands",
		Long: `Select the backend to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ adventurelog use                          # Interactive selection
  $ adventurelog use https://api.example.com  # Select by URL
  $ adventurelog use prod                     # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := userconfig.Default()
			if err != nil {
				return err
			}
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runUse(prefs, urlOrAlias, os.Stdout)
		},
	}

	return cmd
}

func runUse(prefs *userconfig.Store, urlOrAlias string, out io.Writer) error {
	cfg, err := prefs.Load()
	if err != nil {
		return err
	}

	var backend userconfig.Backend
	if urlOrAlias != "" {
		backend, err = backendselect.Lookup(cfg, urlOrAlias)
	} else {
		backend, err = backendselect.Prompt(cfg)
	}
	if err != nil {
		return err
	}

	if err := prefs.Remember(backend); err != nil {
		return fmt.Errorf("failed to save selected backend: %w", err)
	}

	fmt.Fprintf(out, "Using backend: %s\n", backend.Label())
	return nil
}
