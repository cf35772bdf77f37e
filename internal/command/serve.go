// Where: internal/command/serve.go
// What: serve command adapter.
// Why: Preview the host page and built bundle without the backend.
package command

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/bootstrap"
	"github.com/poruru-code/elmpack/internal/infra/fileops"
	"github.com/poruru-code/elmpack/internal/infra/server"
	"github.com/poruru-code/elmpack/internal/infra/ui"
)

func runServe(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Serve
	console := consoleUI(out)
	if deps.Serve.Serve == nil {
		return exitWithError(out, fmt.Errorf("serve: server is not configured"))
	}

	_, project, err := loadProject(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	layout, err := layoutConfig(project)
	if err != nil {
		return exitWithError(out, err)
	}

	indexOpts := bootstrap.DefaultIndexOptions(layout.Output.Filename)
	indexOpts.Title = firstNonEmpty(cmd.Title, project.Bootstrap.Title)
	if src, ok := servedBundleSrc(deps.ProjectDir, layout); ok {
		indexOpts.ScriptSrc = src
	}
	page, err := bootstrap.RenderIndex(indexOpts)
	if err != nil {
		return exitWithError(out, err)
	}

	var upstream *url.URL
	if cmd.APIUpstream != "" {
		upstream, err = url.Parse(cmd.APIUpstream)
		if err != nil || upstream.Scheme == "" || upstream.Host == "" {
			return exitWithError(out, fmt.Errorf("invalid --api-upstream %q", cmd.APIUpstream))
		}
	}

	staticDir := filepath.Dir(bundlePath(deps.ProjectDir, layout))
	handler := server.NewHandler(server.Options{
		StaticDir:   staticDir,
		Index:       page,
		APIUpstream: upstream,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := func(addr net.Addr) {
		console.Block("🌐", "Preview", []ui.KeyValue{
			{Key: "URL", Value: "http://" + addr.String()},
			{Key: "Static", Value: staticDir},
		})
	}
	if err := deps.Serve.Serve(ctx, cmd.Addr, handler, ready); err != nil {
		return exitWithError(out, err)
	}
	return 0
}

// servedBundleSrc returns the host page script URL when the compressed
// sibling the default page points at was not emitted.
func servedBundleSrc(projectDir string, cfg buildconfig.Config) (string, bool) {
	bundle := bundlePath(projectDir, cfg)
	for _, plugin := range cfg.Plugins {
		compressed := plugin.AssetPath(bundle)
		if fileops.FileExists(compressed) {
			return bootstrap.StaticSrc(filepath.Base(compressed)), true
		}
	}
	if fileops.FileExists(bundle) {
		return bootstrap.StaticSrc(cfg.Output.Filename), true
	}
	return "", false
}
