package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lychee-technology/queryc"
)

// newS3Client builds an S3 client from the same credential/endpoint
// settings duckdb_conn.go uses to configure the httpfs extension, so
// seeding and querying always target the same object store. Grounded on
// the teacher's UploadFileToS3 client construction in
// internal/e2e_harness/fixtures.go.
func newS3Client(ctx context.Context, cfg queryc.DatabaseConfig) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion("us-east-1"),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}
	if cfg.S3Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(cfg.S3Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// parseS3URI splits an "s3://bucket/key" URI, the shape RenderS3ParquetPath
// produces, into its bucket and key parts.
func parseS3URI(uri string) (bucket, key string, err error) {
	const scheme = "s3://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed s3 uri: %s", uri)
	}
	return parts[0], parts[1], nil
}

// SeedS3Object uploads the local file at localPath to destURI
// ("s3://bucket/key"). It is used when a File-mode acceleration spec
// supplies a "seed_local_path" param: the dataset's Parquet file has to
// land in object storage before DuckDB's read_parquet call can see it.
// Grounded on the teacher's UploadFileToS3 fixture seeder.
func SeedS3Object(ctx context.Context, cfg queryc.DatabaseConfig, localPath, destURI string) error {
	bucket, key, err := parseS3URI(destURI)
	if err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open seed file %s: %w", localPath, err)
	}
	defer f.Close()

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	uploader := manager.NewUploader(client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("upload seed object to %s: %w", destURI, err)
	}
	return nil
}
