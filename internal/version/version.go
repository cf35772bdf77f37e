// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the VCS revision elmpack was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

const shortRevisionLen = 7

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the short VCS revision recorded in the binary,
// suffixed with "(dirty)" for modified trees, or "dev" when unknown.
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	return formatVersion(info.Settings)
}

func formatVersion(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > shortRevisionLen {
				revision = revision[:shortRevisionLen]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
