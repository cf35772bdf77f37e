// Where: internal/infra/bundle/compress.go
// What: Gzip compression pass for emitted assets.
// Why: Ship a pre-compressed bundle that the host page can reference directly.
package bundle

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/fileops"
)

// Compress writes the compressed sibling of assetPath according to plugin.
// It reports emitted=false when the asset is below the threshold or the
// result does not beat the minimum ratio; any stale sibling is removed then.
func Compress(plugin buildconfig.CompressionPlugin, assetPath string) (Asset, bool, error) {
	if err := plugin.Validate(); err != nil {
		return Asset{}, false, err
	}
	target := plugin.AssetPath(assetPath)
	data, err := os.ReadFile(assetPath)
	if err != nil {
		return Asset{}, false, fmt.Errorf("read asset: %w", err)
	}
	if len(data) == 0 || len(data) < plugin.Threshold {
		return Asset{}, false, fileops.RemoveFile(target)
	}

	compressed, err := gzipBytes(data, plugin.Level, filepath.Base(assetPath))
	if err != nil {
		return Asset{}, false, err
	}
	ratio := float64(len(compressed)) / float64(len(data))
	if ratio >= plugin.MinRatio {
		return Asset{}, false, fileops.RemoveFile(target)
	}
	if err := fileops.WriteBytes(target, compressed); err != nil {
		return Asset{}, false, fmt.Errorf("write compressed asset: %w", err)
	}
	return Asset{Path: target, Size: int64(len(compressed))}, true, nil
}

func gzipBytes(data []byte, level int, name string) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	writer.Name = name
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}
