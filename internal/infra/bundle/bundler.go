// Where: internal/infra/bundle/bundler.go
// What: Bundle the front end with esbuild.
// Why: Execute a build configuration and emit exactly one bundle plus its compressed sibling.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/elm"
	"github.com/poruru-code/elmpack/internal/infra/fileops"
)

// Asset is one file written by a build.
type Asset struct {
	Path string
	Size int64
}

// Result summarizes a finished build.
type Result struct {
	Mode       buildconfig.Mode
	Bundle     Asset
	Compressed []Asset
	Warnings   []string
}

// Bundler runs esbuild with the Elm loader plugin.
type Bundler struct {
	Compiler elm.SourceCompiler
	// WorkDir anchors relative entry and output paths.
	WorkDir string
}

// NewBundler constructs a Bundler rooted at workDir.
func NewBundler(compiler elm.SourceCompiler, workDir string) *Bundler {
	return &Bundler{Compiler: compiler, WorkDir: workDir}
}

// Build bundles cfg.Entry into cfg.Output and runs the compression plugins.
func (b *Bundler) Build(ctx context.Context, cfg buildconfig.Config) (Result, error) {
	if b.Compiler == nil {
		return Result{}, fmt.Errorf("bundle: elm compiler not configured")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid build config: %w", err)
	}
	rule, ok := cfg.ElmRule()
	if !ok {
		return Result{}, fmt.Errorf("invalid build config: no %s rule", buildconfig.LoaderElm)
	}
	workDir, err := filepath.Abs(b.WorkDir)
	if err != nil {
		return Result{}, err
	}
	outPath := b.abs(workDir, cfg.Output.Path())

	options := buildOptions(cfg, workDir, outPath)
	options.Plugins = []api.Plugin{elm.Plugin(ctx, rule, b.Compiler)}

	result := api.Build(options)
	if len(result.Errors) > 0 {
		return Result{}, formatErrors(result.Errors)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(result.OutputFiles) != 1 {
		return Result{}, fmt.Errorf("build produced %d output files; expected exactly one", len(result.OutputFiles))
	}

	output := result.OutputFiles[0]
	if err := fileops.WriteBytes(outPath, output.Contents); err != nil {
		return Result{}, fmt.Errorf("write bundle: %w", err)
	}

	res := Result{
		Mode:     cfg.Mode,
		Bundle:   Asset{Path: outPath, Size: int64(len(output.Contents))},
		Warnings: formatMessages(result.Warnings, api.WarningMessage),
	}
	for _, plugin := range cfg.Plugins {
		asset, emitted, err := Compress(plugin, outPath)
		if err != nil {
			return Result{}, err
		}
		if emitted {
			res.Compressed = append(res.Compressed, asset)
		}
	}
	return res, nil
}

func (b *Bundler) abs(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func buildOptions(cfg buildconfig.Config, workDir, outPath string) api.BuildOptions {
	production := cfg.Mode.IsProduction()
	nodeEnv := `"development"`
	if production {
		nodeEnv = `"production"`
	}
	return api.BuildOptions{
		AbsWorkingDir:     workDir,
		EntryPoints:       []string{cfg.Entry},
		Outfile:           outPath,
		Bundle:            true,
		Write:             false,
		Format:            api.FormatIIFE,
		Platform:          api.PlatformBrowser,
		ResolveExtensions: cfg.Extensions,
		MinifyWhitespace:  production,
		MinifyIdentifiers: production,
		MinifySyntax:      production,
		TreeShaking:       api.TreeShakingTrue,
		Define:            map[string]string{"process.env.NODE_ENV": nodeEnv},
		LogLevel:          api.LogLevelSilent,
	}
}

func formatErrors(messages []api.Message) error {
	formatted := formatMessages(messages, api.ErrorMessage)
	errs := make([]error, len(formatted))
	for i, text := range formatted {
		errs[i] = errors.New(text)
	}
	return fmt.Errorf("build failed with %d error(s):\n%w", len(messages), errors.Join(errs...))
}

func formatMessages(messages []api.Message, kind api.MessageKind) []string {
	if len(messages) == 0 {
		return nil
	}
	return api.FormatMessages(messages, api.FormatMessagesOptions{Kind: kind})
}
