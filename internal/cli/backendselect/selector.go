package backendselect

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/adventurelog/web/internal/cli/userconfig"
)

// Resolve determines which backend to use based on the following priority:
// 1. The --backend flag, as a URL or a known alias
// 2. PUBLIC_SERVER_URL from the environment
// 3. The backend selected in the user config
// An empty result means the configured default applies.
func Resolve(flag string, prefs *userconfig.Store) (string, error) {
	if flag == "" && os.Getenv("PUBLIC_SERVER_URL") != "" {
		return "", nil
	}
	if prefs == nil {
		return flag, nil
	}

	cfg, err := prefs.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load user config: %w", err)
	}

	if flag != "" {
		if b, ok := cfg.Find(flag); ok {
			return b.URL, nil
		}
		return flag, nil
	}
	return cfg.Selected, nil
}

// Lookup finds a known backend by URL or alias, accepting any http(s) URL as a new one
func Lookup(cfg *userconfig.UserConfig, urlOrAlias string) (userconfig.Backend, error) {
	if b, ok := cfg.Find(urlOrAlias); ok {
		return *b, nil
	}
	if strings.HasPrefix(urlOrAlias, "http://") || strings.HasPrefix(urlOrAlias, "https://") {
		return userconfig.Backend{URL: strings.TrimRight(urlOrAlias, "/")}, nil
	}
	return userconfig.Backend{}, fmt.Errorf("backend '%s' not found. Pass a URL or log in first", urlOrAlias)
}

// Prompt shows an interactive prompt for the user to select a known backend
func Prompt(cfg *userconfig.UserConfig) (userconfig.Backend, error) {
	if len(cfg.Backends) == 0 {
		return userconfig.Backend{}, fmt.Errorf("no known backends. Run 'adventurelog login --backend <url>' first")
	}

	type backendOption struct {
		Label   string
		Backend userconfig.Backend
	}

	options := make([]backendOption, len(cfg.Backends))
	for i, b := range cfg.Backends {
		label := b.Label()
		if b.URL == cfg.Selected {
			label += " *"
		}
		options[i] = backendOption{Label: label, Backend: b}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a backend",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return userconfig.Backend{}, fmt.Errorf("backend selection cancelled: %w", err)
	}

	return options[index].Backend, nil
}
