// Package datasource abstracts where the input workbook comes from: a local
// file (file.Local) or an S3 object (s3obj.Source).
package datasource

import (
	"context"
	"io"
)

// Source opens the raw input bytes. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
