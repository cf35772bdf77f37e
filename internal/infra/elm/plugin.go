// Where: internal/infra/elm/plugin.go
// What: esbuild plugin that routes Elm sources through the compiler.
// Why: Apply the single extension-keyed transform rule inside the bundler.
package elm

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
)

const pluginName = "elm"

// SourceCompiler compiles one source file into JavaScript.
type SourceCompiler interface {
	Compile(ctx context.Context, source string, opts buildconfig.LoaderOptions) (string, error)
}

// Plugin returns an esbuild plugin applying rule with compiler.
func Plugin(ctx context.Context, rule buildconfig.Rule, compiler SourceCompiler) api.Plugin {
	filter := ExtensionFilter(rule.Test)
	return api.Plugin{
		Name: pluginName,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				path := args.Path
				if !filepath.IsAbs(path) {
					path = filepath.Join(args.ResolveDir, path)
				}
				if !rule.Matches(path) {
					return api.OnResolveResult{}, fmt.Errorf("%s is excluded from the %s rule", args.Path, rule.Loader)
				}
				return api.OnResolveResult{Path: path, Namespace: "file"}, nil
			})
			build.OnLoad(api.OnLoadOptions{Filter: filter, Namespace: "file"}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				if !rule.Matches(args.Path) {
					return api.OnLoadResult{}, fmt.Errorf("%s is excluded from the %s rule", args.Path, rule.Loader)
				}
				js, err := compiler.Compile(ctx, args.Path, rule.Options)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := WrapModule(js)
				return api.OnLoadResult{
					Contents:   &contents,
					ResolveDir: filepath.Dir(args.Path),
					Loader:     api.LoaderJS,
				}, nil
			})
		},
	}
}

// ExtensionFilter builds the esbuild filter regexp matching any of exts.
func ExtensionFilter(exts []string) string {
	quoted := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext = strings.TrimSpace(ext); ext != "" {
			quoted = append(quoted, regexp.QuoteMeta(ext))
		}
	}
	if len(quoted) == 0 {
		return "$^"
	}
	return "(" + strings.Join(quoted, "|") + ")$"
}
