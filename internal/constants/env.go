// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Build Selection
	EnvMode           = "ELMPACK_MODE"
	EnvLifecycleEvent = "npm_lifecycle_event"
	EnvElmBinary      = "ELMPACK_ELM_BIN"
	EnvInteractive    = "ELMPACK_INTERACTIVE"

	// Publish Configuration
	EnvPublishBucket   = "ELMPACK_BUCKET"
	EnvPublishEndpoint = "ELMPACK_S3_ENDPOINT"
	EnvAWSRegion       = "AWS_REGION"
	EnvS3AccessKey     = "S3_ACCESS_KEY"
	EnvS3SecretKey     = "S3_SECRET_KEY"
)

// LifecycleBuild is the lifecycle event name that selects production mode.
const LifecycleBuild = "build"
