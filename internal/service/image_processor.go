package service

import (
	"bytes"
	"context"
	"io"

	"github.com/staylist/staylist-backend/internal/media"
)

// prepareImageForUpload runs the upload through the processor when one is
// configured; otherwise the original bytes pass through untouched.
func prepareImageForUpload(ctx context.Context, processor media.Processor, upload media.Upload, maxDimension int) (io.Reader, int64, string, error) {
	if processor == nil {
		return upload.Reader, upload.Size, upload.ContentType, nil
	}
	result, err := processor.Process(ctx, upload, maxDimension)
	if err != nil {
		return nil, 0, "", err
	}
	return bytes.NewReader(result.Bytes), int64(len(result.Bytes)), result.ContentType, nil
}
