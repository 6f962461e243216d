// Package s3obj reads the input workbook from an S3 object.
package s3obj

import (
	"context"
	"fmt"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Getter is the subset of *s3.Client the source needs.
type Getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source is a datasource.Source backed by one S3 object.
type Source struct {
	client Getter
	bucket string
	key    string
}

// New returns a Source for bucket/key.
func New(client Getter, bucket, key string) *Source {
	return &Source{client: client, bucket: bucket, key: key}
}

// Open starts the GetObject download. The caller closes the body.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}
