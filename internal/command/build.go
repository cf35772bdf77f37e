// Where: internal/command/build.go
// What: build command adapter.
// Why: Resolve inputs and hand them to the build workflow.
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	buildusecase "github.com/poruru-code/elmpack/internal/usecase/build"
)

func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Build
	console := commandUI(out, cmd.Emoji, cmd.NoEmoji)
	if deps.Build.NewBundler == nil {
		return exitWithError(out, fmt.Errorf("build: bundler is not configured"))
	}

	store, project, err := loadProject(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	choice, err := resolveMode(cmd.Mode, project.Build.LastMode, deps, console)
	if err != nil {
		return exitWithError(out, err)
	}

	workflow := buildusecase.NewWorkflow(deps.Build.NewBundler(deps.ProjectDir), store, console)
	_, err = workflow.Run(context.Background(), buildusecase.Request{
		Mode:         choice.Mode,
		Paths:        buildPaths(project.Build, cmd.Entry, cmd.OutputDir, cmd.Filename),
		ProjectDir:   deps.ProjectDir,
		SaveDefaults: !cmd.NoSave && choice.Source != modeSourceFallback,
	})
	if err != nil {
		return exitWithError(out, err)
	}
	return 0
}

// resolveConfig builds the configuration for the given mode flag without running it.
func resolveConfig(modeFlag string, deps Dependencies, out io.Writer) (buildconfig.Config, error) {
	_, project, err := loadProject(deps)
	if err != nil {
		return buildconfig.Config{}, err
	}
	choice, err := resolveMode(modeFlag, project.Build.LastMode, deps, consoleUI(out))
	if err != nil {
		return buildconfig.Config{}, err
	}
	return buildconfig.New(choice.Mode, buildPaths(project.Build, "", "", ""))
}
