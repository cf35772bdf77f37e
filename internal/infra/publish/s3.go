// Where: internal/infra/publish/s3.go
// What: Upload built assets to an S3-compatible bucket.
// Why: Publish the bundle and its compressed sibling with the right content headers.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/poruru-code/elmpack/internal/infra/bundle"
)

// Target identifies where assets are published.
type Target struct {
	Bucket   string
	Prefix   string
	Endpoint string
	Region   string
}

// PutInput is one object upload.
type PutInput struct {
	Bucket          string
	Key             string
	ContentType     string
	ContentEncoding string
	CacheControl    string
	Body            []byte
}

// S3API is the subset of S3 used for publishing.
type S3API interface {
	PutObject(ctx context.Context, input PutInput) error
}

// Uploaded describes one published object.
type Uploaded struct {
	Key             string
	Size            int
	ContentEncoding string
}

// Publisher uploads assets through an S3API.
type Publisher struct {
	Client S3API
}

// Publish uploads each file in paths under target.Prefix.
func (p Publisher) Publish(ctx context.Context, target Target, paths []string) ([]Uploaded, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("publish: s3 client not configured")
	}
	bucket := strings.TrimSpace(target.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("publish: bucket is required")
	}

	uploaded := make([]Uploaded, 0, len(paths))
	for _, assetPath := range paths {
		body, err := os.ReadFile(assetPath)
		if err != nil {
			return uploaded, fmt.Errorf("read %s: %w", assetPath, err)
		}
		input := PutInput{
			Bucket:       bucket,
			Key:          ObjectKey(target.Prefix, filepath.Base(assetPath)),
			CacheControl: "public, max-age=300",
			Body:         body,
		}
		input.ContentType, input.ContentEncoding = bundle.ContentHeaders(assetPath)
		if err := p.Client.PutObject(ctx, input); err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", input.Key, err)
		}
		uploaded = append(uploaded, Uploaded{Key: input.Key, Size: len(body), ContentEncoding: input.ContentEncoding})
	}
	return uploaded, nil
}

// ObjectKey joins prefix and name with forward slashes.
func ObjectKey(prefix, name string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
