// Package s3upload copies finished output files to an S3 bucket under a
// per-run prefix.
package s3upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"seedqa/internal/objstore"
)

// DefaultConcurrency bounds parallel PutObject calls.
const DefaultConcurrency = 4

// Putter is the subset of *s3.Client the uploader needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts files under bucket/prefix/<run-id>/.
type Uploader struct {
	Client      Putter
	Bucket      string
	Prefix      string
	Concurrency int
}

// Upload sends every path in parallel and returns the object keys in the
// order of paths. The first failure cancels the remaining uploads.
func (u *Uploader) Upload(ctx context.Context, runID string, paths []string) ([]string, error) {
	if u.Bucket == "" {
		return nil, fmt.Errorf("s3upload: bucket required")
	}
	limit := u.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	keys := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		key := objstore.JoinKey(u.Prefix, runID, filepath.Base(p))
		keys[i] = key
		g.Go(func() error {
			return u.put(gctx, p, key)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("s3upload: bucket=%s files=%d prefix=%s", u.Bucket, len(paths), objstore.JoinKey(u.Prefix, runID))
	return keys, nil
}

func (u *Uploader) put(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("s3upload: %w", err)
	}
	defer f.Close()
	_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("s3upload: put s3://%s/%s: %w", u.Bucket, key, err)
	}
	return nil
}
