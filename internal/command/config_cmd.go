// Where: internal/command/config_cmd.go
// What: config command adapter.
// Why: Show the exact configuration a build would use.
package command

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func runConfig(cli CLI, deps Dependencies, out io.Writer) int {
	// The prompt would interleave with the YAML document.
	deps.Interactive = func() bool { return false }
	cfg, err := resolveConfig(cli.Config.Mode, deps, deps.ErrOut)
	if err != nil {
		return exitWithError(out, err)
	}
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return exitWithError(out, fmt.Errorf("encode config: %w", err))
	}
	if _, err := out.Write(payload); err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	return 0
}
