package inbound

import (
	"context"
	"io"

	"github.com/tasknest/tasknest/domain/entity"
)

type UploadRequest struct {
	Name        string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadUseCase interface {
	Upload(ctx context.Context, userID string, req UploadRequest) (*entity.File, error)
}
