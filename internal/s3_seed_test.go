package internal

import (
	"context"
	"testing"

	"github.com/lychee-technology/queryc"
)

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://my-bucket/path/to/data.parquet")
	if err != nil {
		t.Fatalf("parseS3URI: %v", err)
	}
	if bucket != "my-bucket" || key != "path/to/data.parquet" {
		t.Fatalf("unexpected bucket/key: %q %q", bucket, key)
	}
}

func TestParseS3URIRejectsNonS3Scheme(t *testing.T) {
	if _, _, err := parseS3URI("https://example.com/data.parquet"); err == nil {
		t.Fatal("expected error for non-s3 scheme")
	}
}

func TestParseS3URIRejectsMissingKey(t *testing.T) {
	if _, _, err := parseS3URI("s3://my-bucket"); err == nil {
		t.Fatal("expected error for uri with no key")
	}
}

func TestSeedS3ObjectRejectsMalformedDestination(t *testing.T) {
	err := SeedS3Object(context.Background(), queryc.DatabaseConfig{}, "/tmp/does-not-matter.parquet", "not-an-s3-uri")
	if err == nil {
		t.Fatal("expected error for malformed destination uri")
	}
}

func TestSeedS3ObjectRejectsMissingLocalFile(t *testing.T) {
	err := SeedS3Object(context.Background(), queryc.DatabaseConfig{}, "/nonexistent/path/data.parquet", "s3://bucket/key.parquet")
	if err == nil {
		t.Fatal("expected error for missing local file")
	}
}
