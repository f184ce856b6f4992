package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lychee-technology/queryc"
)

// ValidateS3Config performs basic sanity checks on S3-related DuckDB settings.
func ValidateS3Config(cfg queryc.DatabaseConfig) error {
	if !cfg.EnableS3 {
		return nil
	}
	if cfg.S3Endpoint == "" && cfg.S3AccessKey == "" && cfg.S3SecretKey == "" {
		return fmt.Errorf("s3: enableS3=true requires at least s3Endpoint or credentials")
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey == "" {
		return fmt.Errorf("s3AccessKey provided without s3SecretKey")
	}
	if cfg.S3SecretKey != "" && cfg.S3AccessKey == "" {
		return fmt.Errorf("s3SecretKey provided without s3AccessKey")
	}
	return nil
}

// S3HealthCheck verifies that the configured S3 credentials and endpoint
// can authenticate against the object store by listing buckets. Grounded
// on the same aws-sdk-go-v2 client construction newS3Client shares with
// the seeding path in s3_seed.go, so the health check exercises exactly
// the client the accelerator will actually use.
func S3HealthCheck(ctx context.Context, cfg queryc.DatabaseConfig, timeout time.Duration) error {
	if !cfg.EnableS3 {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := newS3Client(reqCtx, cfg)
	if err != nil {
		return fmt.Errorf("s3 health client build failed: %w", err)
	}

	if _, err := client.ListBuckets(reqCtx, &s3.ListBucketsInput{}); err != nil {
		return fmt.Errorf("s3 health check failed: %w", err)
	}
	return nil
}
