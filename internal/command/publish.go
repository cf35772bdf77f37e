// Where: internal/command/publish.go
// What: publish command adapter.
// Why: Resolve the bucket target and confirm before uploading.
package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/poruru-code/elmpack/internal/constants"
	"github.com/poruru-code/elmpack/internal/domain/buildconfig"
	"github.com/poruru-code/elmpack/internal/infra/fileops"
	"github.com/poruru-code/elmpack/internal/infra/interaction"
	publishinfra "github.com/poruru-code/elmpack/internal/infra/publish"
	publishusecase "github.com/poruru-code/elmpack/internal/usecase/publish"
)

func runPublish(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Publish
	console := consoleUI(out)

	_, project, err := loadProject(deps)
	if err != nil {
		return exitWithError(out, err)
	}
	layout, err := layoutConfig(project)
	if err != nil {
		return exitWithError(out, err)
	}

	target := publishinfra.Target{
		Bucket:   firstNonEmpty(cmd.Bucket, os.Getenv(constants.EnvPublishBucket), project.Publish.Bucket),
		Prefix:   firstNonEmpty(cmd.Prefix, project.Publish.Prefix),
		Endpoint: firstNonEmpty(cmd.Endpoint, os.Getenv(constants.EnvPublishEndpoint), project.Publish.Endpoint),
		Region:   firstNonEmpty(cmd.Region, project.Publish.Region),
	}
	if target.Bucket == "" {
		return exitWithError(out, fmt.Errorf("bucket is required (--bucket or %s)", constants.EnvPublishBucket))
	}

	assets := publishAssets(deps.ProjectDir, layout)
	if len(assets) == 0 {
		return exitWithError(out, fmt.Errorf("no bundle found at %s; run build first", bundlePath(deps.ProjectDir, layout)))
	}

	if !cmd.Yes && interactiveEnabled(deps) {
		message := fmt.Sprintf("Upload %d file(s) to s3://%s/%s?", len(assets), target.Bucket, target.Prefix)
		ok, err := interaction.PromptYesNoWithIO(deps.In, deps.ErrOut, message)
		if err != nil {
			return exitWithError(out, err)
		}
		if !ok {
			console.Warn("publish cancelled")
			return 1
		}
	}

	workflow := publishusecase.Workflow{Factory: deps.Publish.Factory, UserInterface: console}
	if _, err := workflow.Run(context.Background(), publishusecase.Request{Target: target, Assets: assets}); err != nil {
		return exitWithError(out, err)
	}
	return 0
}

// publishAssets lists the bundle and every compressed sibling that exists.
func publishAssets(projectDir string, cfg buildconfig.Config) []string {
	bundle := bundlePath(projectDir, cfg)
	if !fileops.FileExists(bundle) {
		return nil
	}
	assets := []string{bundle}
	for _, plugin := range cfg.Plugins {
		compressed := plugin.AssetPath(bundle)
		if fileops.FileExists(compressed) {
			assets = append(assets, compressed)
		}
	}
	return assets
}
