// Where: internal/command/project.go
// What: Project config helpers shared by commands.
// Why: Merge flag values over .elmpack/config.yaml consistently.
package command

import (
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/config"
)

func loadProject(deps Dependencies) (config.Store, config.ProjectConfig, error) {
	store := config.Store{Root: deps.ProjectDir}
	cfg, err := store.Load()
	if err != nil {
		return store, config.ProjectConfig{}, err
	}
	return store, cfg, nil
}

// buildPaths merges flag values over the project config. Relative paths
// stay relative to the project root.
func buildPaths(section config.BuildSection, entry, outputDir, filename string) buildconfig.Paths {
	return buildconfig.Paths{
		Entry:     firstNonEmpty(entry, section.Entry),
		OutputDir: firstNonEmpty(outputDir, section.OutputDir),
		Filename:  firstNonEmpty(filename, section.Filename),
	}
}

// bundlePath returns the absolute bundle path for cfg.
func bundlePath(projectDir string, cfg buildconfig.Config) string {
	return resolveAgainst(projectDir, cfg.Output.Path())
}

func resolveAgainst(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// layoutConfig returns the configuration used to locate build outputs. The
// output layout does not depend on the mode, so the last recorded mode is used
// when valid.
func layoutConfig(project config.ProjectConfig) (buildconfig.Config, error) {
	mode, err := buildconfig.ParseMode(project.Build.LastMode)
	if err != nil {
		mode = buildconfig.ModeDevelopment
	}
	return buildconfig.New(mode, buildPaths(project.Build, "", "", ""))
}
