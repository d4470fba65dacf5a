package core

import (
	"context"
	"io"
)

// ObjectClient stores raw uploads in S3 or any other object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
}
