package userconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "adventurelog"
	configFileName = "config.yaml"
)

// Backend is a backend the user has logged in to or selected
type Backend struct {
	URL      string `yaml:"url"`
	Alias    string `yaml:"alias,omitempty"`
	Username string `yaml:"username,omitempty"`
}

// Label is how the backend is shown in prompts and messages
func (b Backend) Label() string {
	if b.Alias != "" {
		return fmt.Sprintf("%s (%s)", b.Alias, b.URL)
	}
	return b.URL
}

// UserConfig represents the user's local configuration stored in ~/.config/adventurelog/config.yaml
type UserConfig struct {
	Selected string    `yaml:"selected,omitempty"`
	Backends []Backend `yaml:"backends,omitempty"`
}

// Find returns a known backend by URL or alias
func (c *UserConfig) Find(urlOrAlias string) (*Backend, bool) {
	key := strings.TrimRight(urlOrAlias, "/")
	for i := range c.Backends {
		if c.Backends[i].URL == key {
			return &c.Backends[i], true
		}
	}
	for i := range c.Backends {
		if c.Backends[i].Alias != "" && c.Backends[i].Alias == urlOrAlias {
			return &c.Backends[i], true
		}
	}
	return nil, false
}

// Upsert adds the backend or updates the non-empty fields of an existing entry
func (c *UserConfig) Upsert(b Backend) *Backend {
	b.URL = strings.TrimRight(b.URL, "/")
	for i := range c.Backends {
		if c.Backends[i].URL != b.URL {
			continue
		}
		if b.Alias != "" {
			c.Backends[i].Alias = b.Alias
		}
		if b.Username != "" {
			c.Backends[i].Username = b.Username
		}
		return &c.Backends[i]
	}
	c.Backends = append(c.Backends, b)
	return &c.Backends[len(c.Backends)-1]
}

// Store reads and writes a UserConfig file
type Store struct {
	Path string
}

// Default returns the store under the user's config directory
func Default() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return &Store{Path: filepath.Join(homeDir, ".config", configDirName, configFileName)}, nil
}

// Load reads the user configuration file. A missing file is an empty config.
func (s *Store) Load() (*UserConfig, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the user configuration to a file
func (s *Store) Save(cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	return nil
}

// Remember records a backend and makes it the selected one
func (s *Store) Remember(b Backend) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	cfg.Selected = cfg.Upsert(b).URL
	return s.Save(cfg)
}

// Selected returns the selected backend URL, or empty string if not set
func (s *Store) Selected() (string, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", err
	}
	return cfg.Selected, nil
}
