// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/infra/interaction"
	publishinfra "github.com/poruru-code/elmpack/internal/infra/publish"
	"github.com/poruru-code/elmpack/internal/infra/ui"
	buildusecase "github.com/poruru-code/elmpack/internal/usecase/build"
	"github.com/poruru-code/elmpack/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
type Dependencies struct {
	Out         io.Writer
	ErrOut      io.Writer
	In          io.Reader
	ProjectDir  string
	Prompter    interaction.Prompter
	Interactive func() bool
	Build       BuildDeps
	Publish     PublishDeps
	Serve       ServeDeps
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	EnvFile    string       `name:"env-file" help:"Path to .env file"`
	ProjectDir string       `name:"project-dir" short:"C" help:"Project root (default: current directory)"`
	Build      BuildCmd     `cmd:"" help:"Bundle the front end"`
	Bootstrap  BootstrapCmd `cmd:"" help:"Generate the browser bootstrap script and host page"`
	Config     ConfigCmd    `cmd:"" help:"Print the resolved build configuration"`
	Publish    PublishCmd   `cmd:"" help:"Upload the built bundle to S3"`
	Serve      ServeCmd     `cmd:"" help:"Serve the host page and bundle locally"`
	Version    VersionCmd   `cmd:"" help:"Show version information"`
}

type (
	// BuildCmd defines the build command flags.
	BuildCmd struct {
		Mode      string `short:"m" help:"Build mode (production/development)"`
		Entry     string `help:"Entry file (default: src/frontend/main.js)"`
		OutputDir string `name:"output-dir" short:"o" help:"Output directory (default: static)"`
		Filename  string `help:"Bundle filename (default: bundle.js)"`
		NoSave    bool   `name:"no-save-defaults" help:"Do not persist the build mode"`
		Emoji     bool   `name:"emoji" help:"Enable emoji output (default: auto)"`
		NoEmoji   bool   `name:"no-emoji" help:"Disable emoji output"`
	}

	// BootstrapCmd defines the bootstrap command flags.
	BootstrapCmd struct {
		Variant  string `help:"Flags variant (url/viewport)"`
		Out      string `help:"Directory for main.js (default: directory of the entry file)"`
		Envelope bool   `help:"Wrap flags in a {schema, value} envelope"`
		Index    bool   `help:"Also write index.html"`
		Title    string `help:"Host page title"`
	}

	// ConfigCmd defines the config command flags.
	ConfigCmd struct {
		Mode string `short:"m" help:"Build mode (production/development)"`
	}

	// PublishCmd defines the publish command flags.
	PublishCmd struct {
		Bucket   string `help:"Target bucket"`
		Prefix   string `help:"Key prefix"`
		Endpoint string `help:"S3-compatible endpoint URL"`
		Region   string `help:"AWS region"`
		Yes      bool   `short:"y" help:"Skip the confirmation prompt"`
	}

	// ServeCmd defines the serve command flags.
	ServeCmd struct {
		Addr        string `default:"127.0.0.1:8000" help:"Listen address"`
		APIUpstream string `name:"api-upstream" help:"Proxy the API path to this URL"`
		Title       string `help:"Host page title"`
	}

	VersionCmd struct{}

	BuildDeps struct {
		NewBundler func(projectDir string) buildusecase.Bundler
	}

	PublishDeps struct {
		Factory publishinfra.ClientFactory
	}

	ServeDeps struct {
		Serve func(ctx context.Context, addr string, handler http.Handler, ready func(net.Addr)) error
	}
)

// Run is the main entry point for CLI command execution.
// It returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	deps.Out = out
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Prompter == nil {
		deps.Prompter = interaction.HuhPrompter{}
	}
	if deps.Interactive == nil {
		deps.Interactive = func() bool { return interaction.IsTerminal(os.Stdin) }
	}

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(cliName()))
	if err != nil {
		return exitWithError(out, err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	console := consoleUI(out)
	loadEnvFile(cli.EnvFile, console)

	projectDir, err := resolveProjectDir(cli.ProjectDir, deps.ProjectDir)
	if err != nil {
		return exitWithError(out, err)
	}
	deps.ProjectDir = projectDir

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps, out); handled {
		return exitCode
	}
	console.Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"build":     runBuild,
		"bootstrap": runBootstrap,
		"config":    runConfig,
		"publish":   runPublish,
		"serve":     runServe,
		"version":   func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}
	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

// loadEnvFile loads the given env file, or .env in the current directory when present.
func loadEnvFile(path string, console ui.UserInterface) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			console.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("failed to load .env: %v", err))
		}
	}
}

func resolveProjectDir(flagValue, fallback string) (string, error) {
	dir := strings.TrimSpace(flagValue)
	if dir == "" {
		dir = strings.TrimSpace(fallback)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project dir %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project dir %s is not a directory", abs)
	}
	return abs, nil
}

func interactiveEnabled(deps Dependencies) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(constants.EnvInteractive))) {
	case "0", "false", "no":
		return false
	}
	return deps.Interactive != nil && deps.Interactive()
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	consoleUI(out).Info(version.GetVersion())
	return 0
}

// runNoArgs prints a short usage summary.
func runNoArgs(out io.Writer) int {
	console := consoleUI(out)
	cmd := cliName()
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s build [--mode production|development]", cmd))
	console.Info(fmt.Sprintf("  %s bootstrap [--variant url|viewport] [--index]", cmd))
	console.Info(fmt.Sprintf("  %s serve [--addr host:port]", cmd))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") {
		console := consoleUI(out)
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--mode"):
			console.Warn("`-m/--mode` expects a value. Use production/development or omit the flag for interactive input.")
			console.Info(fmt.Sprintf("Example: %s build -m production", cmd))
			return 1
		case strings.Contains(msg, "--variant"):
			console.Warn("`--variant` expects a value. Use url or viewport.")
			console.Info(fmt.Sprintf("Example: %s bootstrap --variant viewport", cmd))
			return 1
		case strings.Contains(msg, "--env-file"):
			console.Warn("`--env-file` expects a value. Provide a file path.")
			console.Info(fmt.Sprintf("Example: %s build --env-file .env.prod", cmd))
			return 1
		}
	}
	return exitWithError(out, err)
}
