// Where: cmd/elmpack/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"os"

	"github.com/poruru-code/elmpack/internal/command"
	"github.com/poruru-code/elmpack/internal/infra/bundle"
	"github.com/poruru-code/elmpack/internal/infra/elm"
	"github.com/poruru-code/elmpack/internal/infra/interaction"
	"github.com/poruru-code/elmpack/internal/infra/publish"
	"github.com/poruru-code/elmpack/internal/infra/server"
	buildusecase "github.com/poruru-code/elmpack/internal/usecase/build"
)

var (
	getwd      = os.Getwd
	isTerminal = interaction.IsTerminal
)

// buildDependencies constructs all runtime dependencies required by the CLI.
func buildDependencies() (command.Dependencies, error) {
	projectDir, err := getwd()
	if err != nil {
		return command.Dependencies{}, err
	}

	return command.Dependencies{
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		In:          os.Stdin,
		ProjectDir:  projectDir,
		Prompter:    interaction.HuhPrompter{},
		Interactive: func() bool { return isTerminal(os.Stdin) },
		Build: command.BuildDeps{
			NewBundler: newBundler,
		},
		Publish: command.PublishDeps{
			Factory: publish.NewClientFactory(),
		},
		Serve: command.ServeDeps{
			Serve: server.Serve,
		},
	}, nil
}

// newBundler wires the Elm compiler into the esbuild bundler for projectDir.
func newBundler(projectDir string) buildusecase.Bundler {
	compiler := elm.NewCompiler(elm.ExecRunner{}, projectDir)
	return bundle.NewBundler(compiler, projectDir)
}
