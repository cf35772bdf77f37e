// Where: internal/command/bootstrap.go
// What: bootstrap command adapter.
// Why: Generate main.js and index.html from the project settings.
package command

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/poruru-code/elmpack/internal/domain/flags"
	"github.com/poruru-code/elmpack/internal/infra/bootstrap"
	"github.com/poruru-code/elmpack/internal/infra/ui"
)

func runBootstrap(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Bootstrap
	console := consoleUI(out)

	_, project, err := loadProject(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	layout, err := layoutConfig(project)
	if err != nil {
		return exitWithError(out, err)
	}

	variantName := firstNonEmpty(cmd.Variant, project.Bootstrap.Variant, string(flags.VariantURL))
	variant, err := flags.ParseVariant(variantName)
	if err != nil {
		return exitWithError(out, err)
	}

	entryPath := resolveAgainst(deps.ProjectDir, layout.Entry)
	scriptPath := entryPath
	if dir := firstNonEmpty(cmd.Out, project.Bootstrap.OutDir); dir != "" {
		scriptPath = filepath.Join(resolveAgainst(deps.ProjectDir, dir), filepath.Base(layout.Entry))
	}
	if filepath.Clean(scriptPath) != filepath.Clean(entryPath) {
		console.Warn(fmt.Sprintf("%s is not the build entry (%s); build will not bundle it", scriptPath, layout.Entry))
	}

	script := bootstrap.DefaultScriptOptions(variant)
	script.Envelope = cmd.Envelope || project.Bootstrap.Envelope

	var index *bootstrap.IndexOptions
	if cmd.Index {
		opts := bootstrap.DefaultIndexOptions(layout.Output.Filename)
		opts.Title = firstNonEmpty(cmd.Title, project.Bootstrap.Title)
		index = &opts
	}

	files, err := bootstrap.Write(scriptPath, script, index)
	if err != nil {
		return exitWithError(out, err)
	}

	rows := []ui.KeyValue{
		{Key: "Variant", Value: variant},
		{Key: "Envelope", Value: script.Envelope},
		{Key: "Script", Value: files.Script},
	}
	if files.Index != "" {
		rows = append(rows, ui.KeyValue{Key: "Host page", Value: files.Index})
	}
	console.Block("🧩", "Bootstrap", rows)
	console.Success(fmt.Sprintf("Wrote %s bootstrap", variant))
	return 0
}
