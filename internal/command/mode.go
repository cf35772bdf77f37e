// Where: internal/command/mode.go
// What: Build mode resolution for commands.
// Why: Pick the mode from flags, env, lifecycle, or a prompt in a fixed order.
package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/interaction"
	"github.com/poruru-code/elmpack/internal/infra/ui"
)

// modeSource names where a resolved mode came from.
type modeSource string

const (
	modeSourceFlag      modeSource = "flag"
	modeSourceEnv       modeSource = "env"
	modeSourceLifecycle modeSource = "lifecycle"
	modeSourcePrompt    modeSource = "prompt"
	modeSourceFallback  modeSource = "fallback"
)

type modeChoice struct {
	Mode   buildconfig.Mode
	Source modeSource
}

// resolveMode picks the build mode in order: --mode, ELMPACK_MODE,
// npm_lifecycle_event, interactive prompt, development.
// Explicit values must name a known mode; the legacy lifecycle signal and
// the final fallback warn when they land on development implicitly.
func resolveMode(flagValue, lastMode string, deps Dependencies, console ui.UserInterface) (modeChoice, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		mode, err := buildconfig.ParseMode(value)
		if err != nil {
			return modeChoice{}, fmt.Errorf("--mode: %w", err)
		}
		return modeChoice{Mode: mode, Source: modeSourceFlag}, nil
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvMode)); value != "" {
		mode, err := buildconfig.ParseMode(value)
		if err != nil {
			return modeChoice{}, fmt.Errorf("%s: %w", constants.EnvMode, err)
		}
		return modeChoice{Mode: mode, Source: modeSourceEnv}, nil
	}
	if event, ok := os.LookupEnv(constants.EnvLifecycleEvent); ok {
		mode, fallback := buildconfig.ModeFromLifecycle(event)
		if fallback && console != nil {
			console.Warn(fmt.Sprintf(
				"%s=%q is not %q; building in %s mode. Pass --mode to choose explicitly.",
				constants.EnvLifecycleEvent, event, constants.LifecycleBuild, mode,
			))
		}
		return modeChoice{Mode: mode, Source: modeSourceLifecycle}, nil
	}
	if deps.Prompter != nil && interactiveEnabled(deps) {
		mode, err := promptMode(deps.Prompter, lastMode)
		if err != nil {
			return modeChoice{}, err
		}
		return modeChoice{Mode: mode, Source: modeSourcePrompt}, nil
	}
	mode, _ := buildconfig.ModeFromLifecycle("")
	if console != nil {
		console.Warn(fmt.Sprintf("no build mode given; building in %s mode. Pass --mode to choose explicitly.", mode))
	}
	return modeChoice{Mode: mode, Source: modeSourceFallback}, nil
}

// promptMode asks for the mode, listing the last used mode first.
func promptMode(prompter interaction.Prompter, lastMode string) (buildconfig.Mode, error) {
	modes := buildconfig.Modes()
	if last, err := buildconfig.ParseMode(lastMode); err == nil {
		ordered := []buildconfig.Mode{last}
		for _, mode := range modes {
			if mode != last {
				ordered = append(ordered, mode)
			}
		}
		modes = ordered
	}
	options := make([]interaction.SelectOption, 0, len(modes))
	for _, mode := range modes {
		options = append(options, interaction.SelectOption{Label: string(mode), Value: string(mode)})
	}
	selected, err := prompter.SelectValue("Build mode", options)
	if err != nil {
		return "", fmt.Errorf("prompt build mode: %w", err)
	}
	return buildconfig.ParseMode(selected)
}
