// Where: internal/infra/bootstrap/bootstrap.go
// What: Render the browser bootstrap script and its host page.
// Why: Generate the glue that mounts the Elm application from one versioned flags contract.
package bootstrap

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru-code/elmpack/internal/domain/flags"
	"github.com/poruru-code/elmpack/internal/infra/fileops"
	"github.com/poruru-code/elmpack/internal/meta"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	scriptOnce sync.Once
	scriptTmpl *template.Template
	scriptErr  error

	indexOnce sync.Once
	indexTmpl *htmltemplate.Template
	indexErr  error
)

var (
	mountIDPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	apiPathPattern   = regexp.MustCompile(`^/[A-Za-z0-9/_.-]*$`)
	elmModulePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*(\.[A-Z][A-Za-z0-9_]*)*$`)
	elmImportPattern = regexp.MustCompile(`^\.{1,2}/[A-Za-z0-9/_.-]+\.elm$`)
)

// ScriptOptions controls the generated bootstrap script.
type ScriptOptions struct {
	Variant   flags.Variant
	MountID   string
	APIPath   string
	ElmModule string
	ElmImport string
	// Envelope wraps the flags value in {schema, value}.
	Envelope bool
}

// DefaultScriptOptions returns the options for the given variant with the
// fixed mount id and API path.
func DefaultScriptOptions(variant flags.Variant) ScriptOptions {
	return ScriptOptions{
		Variant:   variant,
		MountID:   meta.MountID,
		APIPath:   meta.APIPath,
		ElmModule: meta.ElmModule,
		ElmImport: meta.ElmImport,
	}
}

type scriptData struct {
	ScriptOptions
	Schema string
	Keys   flags.Keys
}

// RenderScript renders main.js for opts.
func RenderScript(opts ScriptOptions) (string, error) {
	opts = withScriptDefaults(opts)
	if err := validateScriptOptions(opts); err != nil {
		return "", err
	}
	tmpl, err := loadScriptTemplate()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := scriptData{ScriptOptions: opts, Schema: opts.Variant.Schema(), Keys: flags.FieldKeys()}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render bootstrap script: %w", err)
	}
	return buf.String(), nil
}

// IndexOptions controls the generated host page.
type IndexOptions struct {
	MountID   string
	ScriptSrc string
	Title     string
	Lang      string
}

// DefaultIndexOptions points the host page at the compressed bundle.
func DefaultIndexOptions(bundleFilename string) IndexOptions {
	if strings.TrimSpace(bundleFilename) == "" {
		bundleFilename = meta.BundleFilename
	}
	return IndexOptions{
		MountID:   meta.MountID,
		ScriptSrc: StaticSrc(bundleFilename + ".gz"),
	}
}

// StaticSrc is the URL the host page uses for a file in the output directory.
func StaticSrc(filename string) string {
	return path.Join(meta.StaticRoute, filename)
}

// RenderIndex renders index.html for opts.
func RenderIndex(opts IndexOptions) (string, error) {
	if opts.MountID == "" {
		opts.MountID = meta.MountID
	}
	if !mountIDPattern.MatchString(opts.MountID) {
		return "", fmt.Errorf("invalid mount id %q", opts.MountID)
	}
	if strings.TrimSpace(opts.ScriptSrc) == "" {
		return "", fmt.Errorf("script src is required")
	}
	tmpl, err := loadIndexTemplate()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("render host page: %w", err)
	}
	return buf.String(), nil
}

// Files lists what Write produced.
type Files struct {
	Script string
	Index  string
}

// Write renders the script to scriptPath and, when index is non-nil, the host
// page next to it.
func Write(scriptPath string, script ScriptOptions, index *IndexOptions) (Files, error) {
	var files Files
	if strings.TrimSpace(scriptPath) == "" {
		return files, fmt.Errorf("script path is required")
	}
	content, err := RenderScript(script)
	if err != nil {
		return files, err
	}
	files.Script = scriptPath
	if err := fileops.WriteFile(files.Script, content); err != nil {
		return Files{}, fmt.Errorf("write %s: %w", files.Script, err)
	}
	if index == nil {
		return files, nil
	}
	page, err := RenderIndex(*index)
	if err != nil {
		return files, err
	}
	files.Index = filepath.Join(filepath.Dir(scriptPath), meta.IndexName)
	if err := fileops.WriteFile(files.Index, page); err != nil {
		return files, fmt.Errorf("write %s: %w", files.Index, err)
	}
	return files, nil
}

func withScriptDefaults(opts ScriptOptions) ScriptOptions {
	defaults := DefaultScriptOptions(opts.Variant)
	if opts.Variant == "" {
		opts.Variant = flags.VariantURL
	}
	if opts.MountID == "" {
		opts.MountID = defaults.MountID
	}
	if opts.APIPath == "" {
		opts.APIPath = defaults.APIPath
	}
	if opts.ElmModule == "" {
		opts.ElmModule = defaults.ElmModule
	}
	if opts.ElmImport == "" {
		opts.ElmImport = defaults.ElmImport
	}
	return opts
}

func validateScriptOptions(opts ScriptOptions) error {
	if _, err := flags.ParseVariant(string(opts.Variant)); err != nil {
		return err
	}
	if !mountIDPattern.MatchString(opts.MountID) {
		return fmt.Errorf("invalid mount id %q", opts.MountID)
	}
	if !apiPathPattern.MatchString(opts.APIPath) {
		return fmt.Errorf("invalid api path %q", opts.APIPath)
	}
	if !elmModulePattern.MatchString(opts.ElmModule) {
		return fmt.Errorf("invalid elm module %q", opts.ElmModule)
	}
	if !elmImportPattern.MatchString(opts.ElmImport) {
		return fmt.Errorf("invalid elm import %q", opts.ElmImport)
	}
	return nil
}

func loadScriptTemplate() (*template.Template, error) {
	scriptOnce.Do(func() {
		scriptTmpl, scriptErr = template.New("main.js.tmpl").
			Funcs(sprig.TxtFuncMap()).
			ParseFS(templateFS, "templates/main.js.tmpl")
	})
	return scriptTmpl, scriptErr
}

func loadIndexTemplate() (*htmltemplate.Template, error) {
	indexOnce.Do(func() {
		indexTmpl, indexErr = htmltemplate.New("index.html.tmpl").
			Funcs(sprig.FuncMap()).
			ParseFS(templateFS, "templates/index.html.tmpl")
	})
	return indexTmpl, indexErr
}
