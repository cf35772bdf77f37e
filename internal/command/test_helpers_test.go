package command

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/bundle"
	"github.com/poruru-code/elmpack/internal/infra/interaction"
	publishinfra "github.com/poruru-code/elmpack/internal/infra/publish"
	buildusecase "github.com/poruru-code/elmpack/internal/usecase/build"
)

// isolateEnv clears every variable that influences mode and target resolution.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		constants.EnvMode,
		constants.EnvLifecycleEvent,
		constants.EnvInteractive,
		constants.EnvPublishBucket,
		constants.EnvPublishEndpoint,
		"CLI_CMD",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func setWorkingDir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}

type recordingBundler struct {
	configs []buildconfig.Config
	err     error
}

func (b *recordingBundler) Build(_ context.Context, cfg buildconfig.Config) (bundle.Result, error) {
	b.configs = append(b.configs, cfg)
	if b.err != nil {
		return bundle.Result{}, b.err
	}
	return bundle.Result{Mode: cfg.Mode, Bundle: bundle.Asset{Path: cfg.Output.Path(), Size: 10}}, nil
}

type fakePrompter struct {
	value   string
	err     error
	titles  []string
	options [][]interaction.SelectOption
}

func (p *fakePrompter) SelectValue(title string, options []interaction.SelectOption) (string, error) {
	p.titles = append(p.titles, title)
	p.options = append(p.options, append([]interaction.SelectOption{}, options...))
	return p.value, p.err
}

type recordingS3 struct {
	inputs []publishinfra.PutInput
}

func (c *recordingS3) PutObject(_ context.Context, input publishinfra.PutInput) error {
	c.inputs = append(c.inputs, input)
	return nil
}

type fakeClientFactory struct {
	client  *recordingS3
	targets []publishinfra.Target
}

func (f *fakeClientFactory) S3(_ context.Context, target publishinfra.Target) (publishinfra.S3API, error) {
	f.targets = append(f.targets, target)
	return f.client, nil
}

type testEnv struct {
	root     string
	bundler  *recordingBundler
	prompter *fakePrompter
	factory  *fakeClientFactory
	served   []string
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	isolateEnv(t)
	root := t.TempDir()
	setWorkingDir(t, root)
	return &testEnv{
		root:     root,
		bundler:  &recordingBundler{},
		prompter: &fakePrompter{},
		factory:  &fakeClientFactory{client: &recordingS3{}},
	}
}

func (e *testEnv) deps(out *bytes.Buffer, input string, interactive bool) Dependencies {
	return Dependencies{
		Out:         out,
		ErrOut:      out,
		In:          strings.NewReader(input),
		ProjectDir:  e.root,
		Prompter:    e.prompter,
		Interactive: func() bool { return interactive },
		Build: BuildDeps{
			NewBundler: func(string) buildusecase.Bundler { return e.bundler },
		},
		Publish: PublishDeps{Factory: e.factory},
		Serve: ServeDeps{
			Serve: func(_ context.Context, addr string, handler http.Handler, ready func(net.Addr)) error {
				e.served = append(e.served, addr)
				e.handler = handler
				if ready != nil {
					ready(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8000})
				}
				return nil
			},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
