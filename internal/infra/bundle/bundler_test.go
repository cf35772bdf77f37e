// Where: internal/infra/bundle/bundler_test.go
// What: Tests for bundling with the Elm loader plugin.
// Why: Ensure one bundle is emitted per build and loader options follow the mode.
package bundle

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
)

type fakeCompiler struct {
	mu      sync.Mutex
	sources []string
	options []buildconfig.LoaderOptions
	output  string
	err     error
}

func (f *fakeCompiler) Compile(_ context.Context, source string, opts buildconfig.LoaderOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	f.options = append(f.options, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

const entrySource = `import { Elm } from './Main.elm';

document.addEventListener('DOMContentLoaded', () => {
    Elm.Main.init({
        node: document.getElementById('app'),
        flags: location.origin + '/gql',
    });
});
`

func compiledElm() string {
	return "(function(scope){ scope['Elm'] = { Main: { init: function (o) { return \"" +
		strings.Repeat("elm runtime ", 400) + "\"; } } }; }(this));"
}

func writeProject(t *testing.T, entry string) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src", "frontend")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "main.js"), []byte(entry), 0o600); err != nil {
		t.Fatalf("write main.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "Main.elm"), []byte("module Main exposing (main)\n"), 0o600); err != nil {
		t.Fatalf("write Main.elm: %v", err)
	}
	return root
}

func TestBuildEmitsSingleBundleInEachMode(t *testing.T) {
	for _, mode := range buildconfig.Modes() {
		t.Run(string(mode), func(t *testing.T) {
			root := writeProject(t, entrySource)
			compiler := &fakeCompiler{output: compiledElm()}
			cfg, err := buildconfig.New(mode, buildconfig.Paths{})
			if err != nil {
				t.Fatalf("config: %v", err)
			}

			res, err := NewBundler(compiler, root).Build(context.Background(), cfg)
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			wantPath := filepath.Join(root, "static", "bundle.js")
			if res.Bundle.Path != wantPath {
				t.Fatalf("bundle path = %s, want %s", res.Bundle.Path, wantPath)
			}
			data, err := os.ReadFile(wantPath)
			if err != nil {
				t.Fatalf("read bundle: %v", err)
			}
			if int64(len(data)) != res.Bundle.Size {
				t.Fatalf("size mismatch: %d vs %d", len(data), res.Bundle.Size)
			}
			if !strings.Contains(string(data), "DOMContentLoaded") {
				t.Fatalf("bundle missing bootstrap code")
			}
			if len(compiler.options) != 1 {
				t.Fatalf("expected one elm compile, got %d", len(compiler.options))
			}
			if compiler.options[0].Optimize != mode.IsProduction() {
				t.Fatalf("optimize = %v in %s", compiler.options[0].Optimize, mode)
			}
			if filepath.Base(compiler.sources[0]) != "Main.elm" {
				t.Fatalf("unexpected compiled source %s", compiler.sources[0])
			}

			entries, err := os.ReadDir(filepath.Join(root, "static"))
			if err != nil {
				t.Fatalf("read output dir: %v", err)
			}
			names := []string{}
			for _, entry := range entries {
				names = append(names, entry.Name())
			}
			if strings.Join(names, ",") != "bundle.js,bundle.js.gz" {
				t.Fatalf("unexpected output files %v", names)
			}
			if len(res.Compressed) != 1 || res.Compressed[0].Path != wantPath+".gz" {
				t.Fatalf("unexpected compressed assets %+v", res.Compressed)
			}
			assertGzipOf(t, res.Compressed[0].Path, data)
		})
	}
}

func TestBuildProductionMinifies(t *testing.T) {
	sizes := map[buildconfig.Mode]int64{}
	for _, mode := range buildconfig.Modes() {
		root := writeProject(t, entrySource)
		cfg, _ := buildconfig.New(mode, buildconfig.Paths{})
		res, err := NewBundler(&fakeCompiler{output: compiledElm()}, root).Build(context.Background(), cfg)
		if err != nil {
			t.Fatalf("build %s: %v", mode, err)
		}
		sizes[mode] = res.Bundle.Size
	}
	if sizes[buildconfig.ModeProduction] >= sizes[buildconfig.ModeDevelopment] {
		t.Fatalf("expected production bundle to be smaller: %v", sizes)
	}
}

func TestBuildPropagatesCompilerErrors(t *testing.T) {
	root := writeProject(t, entrySource)
	compiler := &fakeCompiler{err: errors.New("-- NAMING ERROR -- Main.elm")}
	cfg, _ := buildconfig.New(buildconfig.ModeDevelopment, buildconfig.Paths{})

	_, err := NewBundler(compiler, root).Build(context.Background(), cfg)
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !strings.Contains(err.Error(), "NAMING ERROR") {
		t.Fatalf("expected compiler message, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "static", "bundle.js")); !os.IsNotExist(statErr) {
		t.Fatalf("no bundle must be written on failure")
	}
}

func TestBuildRejectsExcludedElmSources(t *testing.T) {
	entry := "import { Elm } from './node_modules/widget/Widget.elm';\nconsole.log(Elm);\n"
	root := writeProject(t, entry)
	widget := filepath.Join(root, "src", "frontend", "node_modules", "widget")
	if err := os.MkdirAll(widget, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(widget, "Widget.elm"), []byte("module Widget exposing (..)\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	compiler := &fakeCompiler{output: compiledElm()}
	cfg, _ := buildconfig.New(buildconfig.ModeDevelopment, buildconfig.Paths{})

	_, err := NewBundler(compiler, root).Build(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "excluded") {
		t.Fatalf("expected exclusion error, got %v", err)
	}
	if len(compiler.sources) != 0 {
		t.Fatalf("excluded source must not be compiled")
	}
}

func TestBuildResolvesElmExtension(t *testing.T) {
	entry := "import { Elm } from './Main';\nElm.Main.init({ node: document.getElementById('app') });\n"
	root := writeProject(t, entry)
	compiler := &fakeCompiler{output: compiledElm()}
	cfg, _ := buildconfig.New(buildconfig.ModeDevelopment, buildconfig.Paths{})

	if _, err := NewBundler(compiler, root).Build(context.Background(), cfg); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(compiler.sources) != 1 {
		t.Fatalf("expected Main.elm to be resolved by extension")
	}
}

func TestBuildRequiresCompiler(t *testing.T) {
	cfg, _ := buildconfig.New(buildconfig.ModeDevelopment, buildconfig.Paths{})
	if _, err := (&Bundler{WorkDir: t.TempDir()}).Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without compiler")
	}
}

func assertGzipOf(t *testing.T, path string, want []byte) {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	reader, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read gzip: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("compressed content does not match bundle")
	}
}
