// Where: internal/infra/elm/runner.go
// What: External command execution for the Elm compiler.
// Why: Allow the compiler invocation to be faked in tests.
package elm

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner defines the interface for executing external commands.
type CommandRunner interface {
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner is a concrete implementation of CommandRunner using os/exec.
type ExecRunner struct{}

func (r ExecRunner) RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("run %s: %w", name, err)
	}
	return output, nil
}
