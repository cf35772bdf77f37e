// Where: internal/infra/config/project.go
// What: Project config load/save.
// Why: Manage <project>/.elmpack/config.yaml consistently.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/meta"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config schema version written by this tool.
const CurrentVersion = 1

// ProjectConfig is the on-disk project configuration.
type ProjectConfig struct {
	Version   int              `yaml:"version"`
	Build     BuildSection     `yaml:"build,omitempty"`
	Bootstrap BootstrapSection `yaml:"bootstrap,omitempty"`
	Publish   PublishSection   `yaml:"publish,omitempty"`
}

// BuildSection overrides the fixed bundle layout and remembers the last mode.
type BuildSection struct {
	Entry     string `yaml:"entry,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	Filename  string `yaml:"filename,omitempty"`
	LastMode  string `yaml:"last_mode,omitempty"`
}

// BootstrapSection selects the flags variant the bootstrap script sends.
type BootstrapSection struct {
	Variant  string `yaml:"variant,omitempty"`
	Envelope bool   `yaml:"envelope,omitempty"`
	OutDir   string `yaml:"out_dir,omitempty"`
	Title    string `yaml:"title,omitempty"`
}

// PublishSection configures the static asset bucket.
type PublishSection struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
}

// DefaultProjectConfig returns an initialized config with version set.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{Version: CurrentVersion}
}

// ProjectConfigPath returns the path to the project config file.
func ProjectConfigPath(projectRoot string) (string, error) {
	root := strings.TrimSpace(projectRoot)
	if root == "" {
		return "", fmt.Errorf("project root is required")
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Join(root, meta.HomeDir, meta.ConfigFilename), nil
}

// LoadProjectConfig reads and validates the project config. A missing file
// yields the default config.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultProjectConfig(), nil
		}
		return ProjectConfig{}, fmt.Errorf("read project config: %w", err)
	}
	if err := validateProjectConfig(payload); err != nil {
		return ProjectConfig{}, fmt.Errorf("validate project config %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("decode project config: %w", err)
	}
	return cfg, nil
}

// SaveProjectConfig writes cfg to path.
func SaveProjectConfig(path string, cfg ProjectConfig) error {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}
	if err := validateProjectConfig(payload); err != nil {
		return fmt.Errorf("validate project config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project config dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write project config: %w", err)
	}
	return nil
}

// Store loads and saves the config for one project root.
type Store struct {
	Root string
}

// Load returns the project's config.
func (s Store) Load() (ProjectConfig, error) {
	path, err := ProjectConfigPath(s.Root)
	if err != nil {
		return ProjectConfig{}, err
	}
	return LoadProjectConfig(path)
}

// RecordBuildMode persists the mode of the last successful build.
func (s Store) RecordBuildMode(mode string) error {
	path, err := ProjectConfigPath(s.Root)
	if err != nil {
		return err
	}
	cfg, err := LoadProjectConfig(path)
	if err != nil {
		return err
	}
	if cfg.Build.LastMode == mode {
		return nil
	}
	cfg.Build.LastMode = mode
	return SaveProjectConfig(path, cfg)
}
