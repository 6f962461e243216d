// Package objstore builds S3 clients for the workbook source and the output
// uploader. It works against AWS S3 and S3-compatible stores such as MinIO.
package objstore

import (
	"context"
	"fmt"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds explicit client parameters. Empty credentials fall back to
// the default AWS credential chain.
type Config struct {
	Region          string
	Endpoint        string // optional; e.g. a MinIO URL
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// NewClient creates an S3 client from cfg. optFns are applied last and are
// how tests inject an HTTP transport.
func NewClient(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return s3.NewFromConfig(awsCfg, opts...), nil
}

// IsURI reports whether s is an s3:// object URI.
func IsURI(s string) bool { return strings.HasPrefix(s, "s3://") }

// ParseURI splits s3://bucket/key.
func ParseURI(s string) (bucket, key string, err error) {
	if !IsURI(s) {
		return "", "", fmt.Errorf("not an s3 uri: %q", s)
	}
	rest := strings.TrimPrefix(s, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri %q: want s3://bucket/key", s)
	}
	return bucket, key, nil
}

// JoinKey joins key segments with "/", skipping empty ones.
func JoinKey(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
