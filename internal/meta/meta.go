// Where: internal/meta/meta.go
// What: Tool identity and fixed layout constants.
// Why: Keep the names shared by the bundle, bootstrap, and host page in one place.
package meta

const (
	// Tool Identity
	AppName   = "elmpack"
	Slug      = "elmpack"
	EnvPrefix = "ELMPACK"

	// Directory Layout
	HomeDir        = ".elmpack"
	ConfigFilename = "config.yaml"

	// Bundle Layout
	EntryPath      = "src/frontend/main.js"
	OutputDir      = "static"
	BundleFilename = "bundle.js"
	StaticRoute    = "/static"

	// Bootstrap Contract
	MountID   = "app"
	APIPath   = "/gql"
	ElmModule = "Main"
	ElmImport = "./Main.elm"
	IndexName = "index.html"
)
