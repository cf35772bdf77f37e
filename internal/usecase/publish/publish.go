// Where: internal/usecase/publish/publish.go
// What: Publish workflow orchestration.
// Why: Upload the built assets without CLI concerns.
package publish

import (
	"context"
	"fmt"

	publishinfra "github.com/poruru-code/elmpack/internal/infra/publish"
	"github.com/poruru-code/elmpack/internal/infra/ui"
)

// Request captures the inputs required to publish.
type Request struct {
	Target publishinfra.Target
	Assets []string
}

// Workflow executes the publish steps.
type Workflow struct {
	Factory       publishinfra.ClientFactory
	UserInterface ui.UserInterface
}

// Run uploads req.Assets to req.Target.
func (w Workflow) Run(ctx context.Context, req Request) ([]publishinfra.Uploaded, error) {
	if w.Factory == nil {
		return nil, fmt.Errorf("publish client factory is not configured")
	}
	if len(req.Assets) == 0 {
		return nil, fmt.Errorf("nothing to publish: build the bundle first")
	}
	client, err := w.Factory.S3(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	uploaded, err := publishinfra.Publisher{Client: client}.Publish(ctx, req.Target, req.Assets)
	if err != nil {
		return uploaded, err
	}
	if w.UserInterface != nil {
		rows := make([]ui.KeyValue, 0, len(uploaded)+1)
		rows = append(rows, ui.KeyValue{Key: "Bucket", Value: req.Target.Bucket})
		for _, object := range uploaded {
			value := fmt.Sprintf("%d bytes", object.Size)
			if object.ContentEncoding != "" {
				value += ", " + object.ContentEncoding
			}
			rows = append(rows, ui.KeyValue{Key: object.Key, Value: value})
		}
		w.UserInterface.Block("☁️", "Published", rows)
		w.UserInterface.Success("Publish complete")
	}
	return uploaded, nil
}
