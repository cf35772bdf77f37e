// Where: internal/domain/buildconfig/config.go
// What: The build configuration value.
// Why: Describe one bundle build as an immutable record constructed from an explicit mode.
package buildconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/meta"
)

var (
	defaultExtensions   = []string{".js", ".elm"}
	defaultRuleTest     = []string{".elm"}
	defaultRuleExcludes = []string{"elm-stuff", "node_modules"}
)

// Output is the single directory/filename pair a build writes.
type Output struct {
	Dir      string `json:"path" yaml:"dir"`
	Filename string `json:"filename" yaml:"filename"`
}

// Path joins the output directory and filename.
func (o Output) Path() string {
	return filepath.Join(o.Dir, o.Filename)
}

// Rule routes files with matching extensions through a transform loader.
type Rule struct {
	Test    []string      `json:"test" yaml:"test"`
	Exclude []string      `json:"exclude" yaml:"exclude"`
	Loader  string        `json:"loader" yaml:"loader"`
	Options LoaderOptions `json:"options" yaml:"options"`
}

// Matches reports whether path has one of the rule's extensions and does
// not sit under an excluded directory.
func (r Rule) Matches(path string) bool {
	ext := filepath.Ext(path)
	matched := false
	for _, test := range r.Test {
		if ext == test {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return !r.Excluded(path)
}

// Excluded reports whether any path segment equals an exclude pattern.
func (r Rule) Excluded(path string) bool {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	for _, pattern := range r.Exclude {
		for _, segment := range segments {
			if segment == pattern {
				return true
			}
		}
	}
	return false
}

// Paths overrides the fixed entry and output declarations.
// Empty fields keep the defaults.
type Paths struct {
	Entry     string
	OutputDir string
	Filename  string
}

// Config describes a single build invocation.
type Config struct {
	Mode       Mode                `json:"mode" yaml:"mode"`
	Entry      string              `json:"entry" yaml:"entry"`
	Output     Output              `json:"output" yaml:"output"`
	Rules      []Rule              `json:"rules" yaml:"rules"`
	Extensions []string            `json:"extensions" yaml:"extensions"`
	Plugins    []CompressionPlugin `json:"plugins" yaml:"plugins"`
}

// New builds the configuration for mode. The mode is a parameter rather than
// ambient process state so the same inputs always produce the same value.
func New(mode Mode, paths Paths) (Config, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Mode:  mode,
		Entry: firstNonEmpty(paths.Entry, meta.EntryPath),
		Output: Output{
			Dir:      firstNonEmpty(paths.OutputDir, meta.OutputDir),
			Filename: firstNonEmpty(paths.Filename, meta.BundleFilename),
		},
		Rules: []Rule{{
			Test:    append([]string(nil), defaultRuleTest...),
			Exclude: append([]string(nil), defaultRuleExcludes...),
			Loader:  LoaderElm,
			Options: LoaderOptionsFor(mode),
		}},
		Extensions: append([]string(nil), defaultExtensions...),
		Plugins:    []CompressionPlugin{DefaultCompression()},
	}
	return cfg, cfg.Validate()
}

// Validate checks the structural invariants of a configuration.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseMode(string(c.Mode)); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Entry) == "" {
		errs = append(errs, errors.New("entry is required"))
	}
	if strings.TrimSpace(c.Output.Dir) == "" || strings.TrimSpace(c.Output.Filename) == "" {
		errs = append(errs, errors.New("output dir and filename are required"))
	}
	if strings.ContainsAny(c.Output.Filename, `/\`) {
		errs = append(errs, fmt.Errorf("output filename must not contain a directory: %q", c.Output.Filename))
	}
	if len(c.Rules) != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one transform rule, got %d", len(c.Rules)))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("at least one resolvable extension is required"))
	}
	for _, plugin := range c.Plugins {
		if err := plugin.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ElmRule returns the rule handled by the Elm loader.
func (c Config) ElmRule() (Rule, bool) {
	for _, rule := range c.Rules {
		if rule.Loader == LoaderElm {
			return rule, true
		}
	}
	return Rule{}, false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
