package outbound

import (
	"context"
	"io"

	"github.com/tasknest/tasknest/domain/entity"
)

type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
}

// BlobStorage persists uploaded content under a relative key and returns the
// path or URL clients use to fetch it.
type BlobStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
