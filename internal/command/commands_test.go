// Where: internal/command/commands_test.go
// What: Tests for bootstrap, config, publish, and serve commands.
// Why: Ensure each adapter wires project settings into its infra call.
package command

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/infra/config"
)

func TestRunBootstrapDefaultsToURLVariant(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"bootstrap"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	payload, err := os.ReadFile(filepath.Join(env.root, "src", "frontend", "main.js"))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	script := string(payload)
	if !strings.Contains(script, "flags: location.origin + '/gql',") {
		t.Fatalf("expected url flags:\n%s", script)
	}
	if strings.Contains(script, "innerWidth") {
		t.Fatalf("url variant must not read the viewport:\n%s", script)
	}
	if _, err := os.Stat(filepath.Join(env.root, "src", "frontend", "index.html")); !os.IsNotExist(err) {
		t.Fatalf("index must not be written without --index")
	}
}

func TestRunBootstrapViewportWithIndex(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.root, "web")
	var out bytes.Buffer
	code := Run([]string{"bootstrap", "--variant", "viewport", "--out", outDir, "--index", "--title", "Review"}, env.deps(&out, "", false))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	script, err := os.ReadFile(filepath.Join(outDir, "main.js"))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(out.String(), "build will not bundle it") {
		t.Fatalf("expected a warning for a script outside the entry path: %s", out.String())
	}
	for _, want := range []string{"width: window.innerWidth,", "height: window.innerHeight,"} {
		if !strings.Contains(string(script), want) {
			t.Fatalf("script missing %q:\n%s", want, script)
		}
	}
	page, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{`<div id="app">`, `src="/static/bundle.js.gz"`, "<title>Review</title>"} {
		if !strings.Contains(string(page), want) {
			t.Fatalf("index missing %q:\n%s", want, page)
		}
	}
}

func TestRunBootstrapWritesConfiguredEntry(t *testing.T) {
	env := newTestEnv(t)
	path, _ := config.ProjectConfigPath(env.root)
	cfg := config.DefaultProjectConfig()
	cfg.Build.Entry = "src/app.js"
	if err := config.SaveProjectConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out bytes.Buffer
	if code := Run([]string{"bootstrap"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	if _, err := os.Stat(filepath.Join(env.root, "src", "app.js")); err != nil {
		t.Fatalf("expected the build entry to be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "src", "main.js")); !os.IsNotExist(err) {
		t.Fatalf("main.js must not be written when the entry is app.js")
	}
	if strings.Contains(out.String(), "[warn]") {
		t.Fatalf("unexpected warning: %s", out.String())
	}
}

func TestRunBootstrapUsesProjectVariantAndEnvelope(t *testing.T) {
	env := newTestEnv(t)
	path, _ := config.ProjectConfigPath(env.root)
	cfg := config.DefaultProjectConfig()
	cfg.Bootstrap.Variant = "viewport"
	cfg.Bootstrap.Envelope = true
	if err := config.SaveProjectConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out bytes.Buffer
	if code := Run([]string{"bootstrap"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	script, err := os.ReadFile(filepath.Join(env.root, "src", "frontend", "main.js"))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(script), "elmpack.flags.viewport/v1") {
		t.Fatalf("expected envelope schema tag:\n%s", script)
	}
}

func TestRunBootstrapRejectsUnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"bootstrap", "--variant", "resize"}, env.deps(&out, "", false)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown flags variant") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunConfigPrintsResolvedConfig(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"config", "--mode", "production"}, env.deps(&out, "", true)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	doc := out.String()
	for _, want := range []string{
		"mode: production",
		"entry: src/frontend/main.js",
		"dir: static",
		"filename: bundle.js",
		"optimize: true",
		"-A128M",
		"- elm-stuff",
		"algorithm: gzip",
		"min_ratio: 0.8",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("config missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "debug:") {
		t.Fatalf("production config must not carry debug:\n%s", doc)
	}
	if len(env.prompter.titles) != 0 {
		t.Fatalf("config must not prompt")
	}
}

func TestRunConfigDevelopment(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"config", "-m", "development"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	doc := out.String()
	if !strings.Contains(doc, "debug: false") || strings.Contains(doc, "optimize:") {
		t.Fatalf("unexpected development options:\n%s", doc)
	}
}

func TestRunPublishUploadsBundleAndCompressedSibling(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "static", "bundle.js"), "console.log(1)")
	writeFile(t, filepath.Join(env.root, "static", "bundle.js.gz"), "gz")

	var out bytes.Buffer
	code := Run([]string{"publish", "--bucket", "review-static", "--prefix", "static", "--yes"}, env.deps(&out, "", true))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	inputs := env.factory.client.inputs
	if len(inputs) != 2 {
		t.Fatalf("expected two uploads, got %d", len(inputs))
	}
	if inputs[0].Key != "static/bundle.js" || inputs[1].Key != "static/bundle.js.gz" {
		t.Fatalf("unexpected keys: %q, %q", inputs[0].Key, inputs[1].Key)
	}
	if inputs[1].ContentEncoding != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", inputs[1].ContentEncoding)
	}
}

func TestRunPublishBucketFromEnv(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(constants.EnvPublishBucket, "env-bucket")
	t.Setenv(constants.EnvPublishEndpoint, "http://localhost:9000")
	writeFile(t, filepath.Join(env.root, "static", "bundle.js"), "x")

	var out bytes.Buffer
	if code := Run([]string{"publish"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	target := env.factory.targets[0]
	if target.Bucket != "env-bucket" || target.Endpoint != "http://localhost:9000" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestRunPublishRequiresBucket(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "static", "bundle.js"), "x")
	var out bytes.Buffer
	if code := Run([]string{"publish"}, env.deps(&out, "", false)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "bucket is required") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunPublishRequiresBuiltBundle(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"publish", "--bucket", "b"}, env.deps(&out, "", false)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "run build first") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunPublishCancelledAtPrompt(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "static", "bundle.js"), "x")
	var out bytes.Buffer
	if code := Run([]string{"publish", "--bucket", "b"}, env.deps(&out, "n\n", true)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(env.factory.targets) != 0 {
		t.Fatalf("cancelled publish must not create a client")
	}
	if !strings.Contains(out.String(), "publish cancelled") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestRunServeWiresHandler(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "static", "bundle.js.gz"), "gz")

	var out bytes.Buffer
	if code := Run([]string{"serve", "--addr", "127.0.0.1:0"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	if len(env.served) != 1 || env.served[0] != "127.0.0.1:0" {
		t.Fatalf("unexpected serve calls: %v", env.served)
	}
	if !strings.Contains(out.String(), "http://127.0.0.1:8000") {
		t.Fatalf("expected ready banner: %s", out.String())
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews/42", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `src="/static/bundle.js.gz"`) {
		t.Fatalf("unexpected index response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/bundle.js.gz", nil))
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
}

func TestRunServeFallsBackToUncompressedBundle(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, filepath.Join(env.root, "static", "bundle.js"), "console.log(1)")

	var out bytes.Buffer
	if code := Run([]string{"serve"}, env.deps(&out, "", false)); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `src="/static/bundle.js"`) || strings.Contains(body, "bundle.js.gz") {
		t.Fatalf("expected the uncompressed bundle in the host page:\n%s", body)
	}

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/bundle.js", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("unexpected bundle response %d, encoding %q", rec.Code, rec.Header().Get("Content-Encoding"))
	}
}

func TestRunServeRejectsInvalidUpstream(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	if code := Run([]string{"serve", "--api-upstream", "localhost"}, env.deps(&out, "", false)); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if len(env.served) != 0 {
		t.Fatalf("server must not start")
	}
}
