// Where: internal/domain/buildconfig/compression.go
// What: Output compression plugin settings.
// Why: Describe the always-on gzip pass that runs after bundling.
package buildconfig

import (
	"compress/gzip"
	"fmt"
	"path/filepath"
	"strings"
)

// AlgorithmGzip is the only supported compression algorithm.
const AlgorithmGzip = "gzip"

// CompressionPlugin emits a compressed sibling for each output asset.
type CompressionPlugin struct {
	Algorithm string  `json:"algorithm" yaml:"algorithm"`
	Filename  string  `json:"filename" yaml:"filename"`
	Threshold int     `json:"threshold" yaml:"threshold"`
	MinRatio  float64 `json:"minRatio" yaml:"min_ratio"`
	Level     int     `json:"level" yaml:"level"`
}

// DefaultCompression returns gzip at best compression, emitted as
// "<asset>.gz" for any size whenever it saves at least 20%.
func DefaultCompression() CompressionPlugin {
	return CompressionPlugin{
		Algorithm: AlgorithmGzip,
		Filename:  "[path][base].gz",
		Threshold: 0,
		MinRatio:  0.8,
		Level:     gzip.BestCompression,
	}
}

// Validate checks the plugin settings.
func (p CompressionPlugin) Validate() error {
	if p.Algorithm != AlgorithmGzip {
		return fmt.Errorf("unsupported compression algorithm %q", p.Algorithm)
	}
	if p.Level < gzip.HuffmanOnly || p.Level > gzip.BestCompression {
		return fmt.Errorf("invalid compression level %d", p.Level)
	}
	if p.MinRatio <= 0 {
		return fmt.Errorf("min ratio must be positive, got %v", p.MinRatio)
	}
	if !strings.Contains(p.Filename, "[base]") && !strings.Contains(p.Filename, "[name]") {
		return fmt.Errorf("compression filename %q must reference [base] or [name]", p.Filename)
	}
	return nil
}

// AssetPath expands the filename pattern for assetPath.
// Supported placeholders: [path] (directory with trailing separator),
// [base] (file name with extension), [name] (file name without extension),
// [ext] (extension including the dot).
func (p CompressionPlugin) AssetPath(assetPath string) string {
	dir, base := filepath.Split(assetPath)
	ext := filepath.Ext(base)
	replacer := strings.NewReplacer(
		"[path]", dir,
		"[base]", base,
		"[name]", strings.TrimSuffix(base, ext),
		"[ext]", ext,
	)
	return replacer.Replace(p.Filename)
}
