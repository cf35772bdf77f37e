// Where: internal/infra/elm/compiler.go
// What: Elm compiler invocation.
// Why: Turn one .elm entry into browser JavaScript with mode-dependent flags.
package elm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
)

const (
	defaultBinary   = "elm"
	projectManifest = "elm.json"
)

// ErrCompile wraps failures reported by the Elm compiler.
var ErrCompile = errors.New("elm compile failed")

// Compiler runs `elm make` for a single source file.
type Compiler struct {
	Runner CommandRunner
	Binary string
	// TempDir receives the intermediate output; empty uses os.TempDir.
	TempDir string
}

// NewCompiler returns a Compiler using the binary resolved for projectDir.
func NewCompiler(runner CommandRunner, projectDir string) *Compiler {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Compiler{Runner: runner, Binary: ResolveBinary(projectDir)}
}

// ResolveBinary picks the compiler executable: the ELMPACK_ELM_BIN override,
// then a project-local node_modules/.bin/elm, then elm on PATH.
func ResolveBinary(projectDir string) string {
	if override := strings.TrimSpace(os.Getenv(constants.EnvElmBinary)); override != "" {
		return override
	}
	if projectDir != "" {
		local := filepath.Join(projectDir, "node_modules", ".bin", defaultBinary)
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local
		}
	}
	return defaultBinary
}

// Args returns the `elm` arguments for compiling source into output.
func Args(source, output string, opts buildconfig.LoaderOptions) ([]string, error) {
	if opts.Optimize && opts.DebugEnabled() {
		return nil, fmt.Errorf("optimize and debug cannot be combined")
	}
	args := []string{"make", source, "--output=" + output}
	if opts.Optimize {
		args = append(args, "--optimize")
	}
	if opts.DebugEnabled() {
		args = append(args, "--debug")
	}
	if len(opts.RuntimeOptions) > 0 {
		args = append(args, "+RTS")
		args = append(args, opts.RuntimeOptions...)
		args = append(args, "-RTS")
	}
	return args, nil
}

// Compile compiles source and returns the generated JavaScript.
func (c *Compiler) Compile(ctx context.Context, source string, opts buildconfig.LoaderOptions) (string, error) {
	if c.Runner == nil {
		return "", fmt.Errorf("elm: command runner not configured")
	}
	source, err := filepath.Abs(source)
	if err != nil {
		return "", err
	}
	projectDir, err := FindProjectDir(filepath.Dir(source))
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(c.TempDir, "elmpack-*.js")
	if err != nil {
		return "", fmt.Errorf("create elm output: %w", err)
	}
	outPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(outPath)

	args, err := Args(source, outPath, opts)
	if err != nil {
		return "", err
	}
	binary := c.Binary
	if binary == "" {
		binary = defaultBinary
	}
	output, err := c.Runner.RunOutput(ctx, projectDir, binary, args...)
	if err != nil {
		report := strings.TrimSpace(string(output))
		if report == "" {
			return "", fmt.Errorf("%w: %s: %v", ErrCompile, source, err)
		}
		return "", fmt.Errorf("%w: %s: %v\n%s", ErrCompile, source, err, report)
	}

	js, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read elm output: %w", err)
	}
	return string(js), nil
}

// FindProjectDir walks up from dir to the nearest directory holding elm.json.
func FindProjectDir(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(current, projectManifest)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%s not found above %s", projectManifest, dir)
		}
		current = parent
	}
}

// WrapModule exposes compiled Elm output as an ES module exporting Elm.
// The compiler emits an IIFE that assigns to `this.Elm`.
func WrapModule(js string) string {
	var b strings.Builder
	b.WriteString("const scope = {};\n(function () {\n")
	b.WriteString(js)
	if !strings.HasSuffix(js, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("}).call(scope);\nexport const Elm = scope.Elm;\n")
	return b.String()
}
