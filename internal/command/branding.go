// Where: internal/command/branding.go
// What: CLI naming helpers.
// Why: Keep user-facing command names consistent when invoked through wrappers.
package command

import (
	"os"
	"strings"

	"github.com/poruru-code/elmpack/internal/meta"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv("CLI_CMD"))
	if name == "" {
		name = strings.TrimSpace(meta.Slug)
	}
	if name == "" {
		name = "elmpack"
	}
	return name
}
