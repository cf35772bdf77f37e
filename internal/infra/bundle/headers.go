// Where: internal/infra/bundle/headers.go
// What: HTTP content headers for emitted assets.
// Why: Serve and publish compressed siblings with the type of the file they wrap.
package bundle

import (
	"path/filepath"
	"strings"
)

// ContentHeaders returns the Content-Type and Content-Encoding for an asset.
// Compressed assets keep the type of the file they wrap.
func ContentHeaders(assetPath string) (contentType, contentEncoding string) {
	name := filepath.Base(assetPath)
	if strings.HasSuffix(name, ".gz") {
		contentEncoding = "gzip"
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".js":
		contentType = "application/javascript"
	case ".html":
		contentType = "text/html; charset=utf-8"
	case ".css":
		contentType = "text/css"
	case ".map", ".json":
		contentType = "application/json"
	default:
		contentType = "application/octet-stream"
	}
	return contentType, contentEncoding
}
