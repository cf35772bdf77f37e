// Where: internal/usecase/build/build.go
// What: Build workflow orchestration.
// Why: Encapsulate build-specific logic without CLI concerns.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/bundle"
	"github.com/poruru-code/elmpack/internal/infra/ui"
)

// Bundler executes a build configuration.
type Bundler interface {
	Build(ctx context.Context, cfg buildconfig.Config) (bundle.Result, error)
}

// ModeRecorder remembers the mode of the last successful build.
type ModeRecorder interface {
	RecordBuildMode(mode string) error
}

// Request captures the inputs required to run a build.
type Request struct {
	Mode         buildconfig.Mode
	Paths        buildconfig.Paths
	ProjectDir   string
	SaveDefaults bool
}

// Workflow executes the build orchestration steps.
type Workflow struct {
	Bundler       Bundler
	Recorder      ModeRecorder
	UserInterface ui.UserInterface
}

// NewWorkflow constructs a Workflow.
func NewWorkflow(bundler Bundler, recorder ModeRecorder, userInterface ui.UserInterface) Workflow {
	return Workflow{Bundler: bundler, Recorder: recorder, UserInterface: userInterface}
}

// Run builds the configuration for req.Mode and bundles it.
func (w Workflow) Run(ctx context.Context, req Request) (bundle.Result, error) {
	if w.Bundler == nil {
		return bundle.Result{}, fmt.Errorf("bundler is not configured")
	}
	cfg, err := buildconfig.New(req.Mode, req.Paths)
	if err != nil {
		return bundle.Result{}, err
	}

	w.info(fmt.Sprintf("Building %s in %s mode", cfg.Entry, cfg.Mode))
	result, err := w.Bundler.Build(ctx, cfg)
	if err != nil {
		return bundle.Result{}, err
	}
	for _, warning := range result.Warnings {
		w.warn(warning)
	}

	if req.SaveDefaults && w.Recorder != nil {
		if err := w.Recorder.RecordBuildMode(string(cfg.Mode)); err != nil {
			w.warn(fmt.Sprintf("failed to save build defaults: %v", err))
		}
	}

	if w.UserInterface != nil {
		rows := []ui.KeyValue{
			{Key: "Mode", Value: cfg.Mode},
			{Key: "Bundle", Value: fmt.Sprintf("%s (%s)", displayPath(req.ProjectDir, result.Bundle.Path), formatSize(result.Bundle.Size))},
		}
		for _, asset := range result.Compressed {
			rows = append(rows, ui.KeyValue{
				Key:   "Compressed",
				Value: fmt.Sprintf("%s (%s)", displayPath(req.ProjectDir, asset.Path), formatSize(asset.Size)),
			})
		}
		if len(result.Compressed) == 0 {
			for _, plugin := range cfg.Plugins {
				rows = append(rows, ui.KeyValue{
					Key:   "Compressed",
					Value: fmt.Sprintf("skipped (%s ratio >= %g)", plugin.Algorithm, plugin.MinRatio),
				})
			}
		}
		w.UserInterface.Block("📦", "Bundle", rows)
		w.UserInterface.Success("Build complete")
	}
	return result, nil
}

func (w Workflow) info(msg string) {
	if w.UserInterface != nil {
		w.UserInterface.Info(msg)
	}
}

func (w Workflow) warn(msg string) {
	if w.UserInterface != nil {
		w.UserInterface.Warn(msg)
	}
}

func displayPath(projectDir, path string) string {
	if projectDir == "" {
		return path
	}
	rel, err := filepath.Rel(projectDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
