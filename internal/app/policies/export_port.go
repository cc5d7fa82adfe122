package policies

import (
	"context"
	"io"
)

type ExportUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
