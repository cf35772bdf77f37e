// Where: internal/infra/publish/aws_factory.go
// What: AWS SDK client construction for publishing.
// Why: Encapsulate SDK configuration for AWS and S3-compatible endpoints.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru-code/elmpack/internal/constants"
)

const defaultAWSRegion = "us-east-1"

// ClientFactory builds S3 clients for a target.
type ClientFactory interface {
	S3(ctx context.Context, target Target) (S3API, error)
}

// NewClientFactory returns the SDK-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

type awsClientFactory struct{}

func (awsClientFactory) S3(ctx context.Context, target Target) (S3API, error) {
	cfg, err := loadAWSConfig(ctx, target.Region)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := strings.TrimSpace(target.Endpoint)
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) PutObject(ctx context.Context, input PutInput) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, buildPutObjectInput(input))
	return err
}

func buildPutObjectInput(input PutInput) *s3.PutObjectInput {
	out := &s3.PutObjectInput{
		Bucket:        aws.String(input.Bucket),
		Key:           aws.String(input.Key),
		Body:          bytes.NewReader(input.Body),
		ContentLength: aws.Int64(int64(len(input.Body))),
		ContentType:   aws.String(input.ContentType),
	}
	if input.ContentEncoding != "" {
		out.ContentEncoding = aws.String(input.ContentEncoding)
	}
	if input.CacheControl != "" {
		out.CacheControl = aws.String(input.CacheControl)
	}
	return out
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	region = resolveRegion(region)
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey, secretKey := staticKeys(); accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func resolveRegion(region string) string {
	if region = strings.TrimSpace(region); region != "" {
		return region
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvAWSRegion)); value != "" {
		return value
	}
	return defaultAWSRegion
}

// staticKeys returns S3-specific keys when both are set. Otherwise the
// default credential chain applies.
func staticKeys() (string, string) {
	return strings.TrimSpace(os.Getenv(constants.EnvS3AccessKey)), strings.TrimSpace(os.Getenv(constants.EnvS3SecretKey))
}
