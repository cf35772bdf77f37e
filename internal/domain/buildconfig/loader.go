// Where: internal/domain/buildconfig/loader.go
// What: Transform loader options per mode.
// Why: Keep the optimize/debug matrix for the Elm loader in one place.
package buildconfig

// LoaderElm names the transform loader that compiles Elm sources.
const LoaderElm = "elm"

// productionRuntimeOptions are GHC runtime flags passed to the Elm compiler
// for optimized builds: allocation area, suggested heap, nursery chunks.
var productionRuntimeOptions = []string{"-A128M", "-H128M", "-n8m"}

// LoaderOptions configures one invocation of the transform loader.
// The JSON form is the option record the loader is documented with.
type LoaderOptions struct {
	Optimize       bool     `json:"optimize,omitempty" yaml:"optimize,omitempty"`
	Debug          *bool    `json:"debug,omitempty" yaml:"debug,omitempty"`
	RuntimeOptions []string `json:"runtimeOptions,omitempty" yaml:"runtime_options,omitempty"`
}

// LoaderOptionsFor returns the loader options for mode.
func LoaderOptionsFor(mode Mode) LoaderOptions {
	if mode.IsProduction() {
		return LoaderOptions{
			Optimize:       true,
			RuntimeOptions: append([]string(nil), productionRuntimeOptions...),
		}
	}
	debug := false
	return LoaderOptions{Debug: &debug}
}

// DebugEnabled reports whether the debugger should be compiled in.
func (o LoaderOptions) DebugEnabled() bool {
	return o.Debug != nil && *o.Debug
}
