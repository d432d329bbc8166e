package ports

import (
	"context"
	"io"
)

// ObjectStorage stores uploaded spot pictures. Upload returns the public URL
// of the stored object.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}
