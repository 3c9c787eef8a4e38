package usecase

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
	apperr "github.com/tasknest/tasknest/domain/error"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

const defaultContentType = "application/octet-stream"

type UploadUseCase struct {
	fileRepository outbound.FileRepository
	storage        outbound.BlobStorage
	logger         logger.Logger
	maxBytes       int64
	newID          func() string
}

func NewUploadUseCase(fileRepo outbound.FileRepository, storage outbound.BlobStorage, log logger.Logger, maxBytes int64) *UploadUseCase {
	return &UploadUseCase{
		fileRepository: fileRepo,
		storage:        storage,
		logger:         log,
		maxBytes:       maxBytes,
		newID:          uuid.NewString,
	}
}

var _ inbound.UploadUseCase = (*UploadUseCase)(nil)

// Upload stores the content under <major type>/<uuid><ext> and records it
// for the user.
func (uc *UploadUseCase) Upload(ctx context.Context, userID string, req inbound.UploadRequest) (*entity.File, error) {
	if req.Body == nil {
		return nil, apperr.ErrValidation("validation failed", apperr.FieldError{Field: "file", Message: "file is required"})
	}
	if uc.maxBytes > 0 && req.Size > uc.maxBytes {
		return nil, apperr.ErrValidation("validation failed", apperr.FieldError{
			Field:   "file",
			Message: fmt.Sprintf("file exceeds %d bytes", uc.maxBytes),
		})
	}

	contentType := resolveContentType(req.ContentType, req.Filename)
	key := storageKey(uc.newID(), contentType, req.Filename)

	path, err := uc.storage.Put(ctx, key, contentType, req.Body)
	if err != nil {
		uc.logger.Error(ctx, "failed to store upload", err, map[string]interface{}{"key": key})
		return nil, apperr.ErrInternal(err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Filename
	}
	file := &entity.File{
		ID:        uc.newID(),
		Name:      name,
		Path:      path,
		Type:      contentType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.fileRepository.Create(ctx, file); err != nil {
		uc.logger.Error(ctx, "failed to record upload", err, map[string]interface{}{"key": key})
		return nil, apperr.ErrInternal(err)
	}

	uc.logger.Info(ctx, "file uploaded", map[string]interface{}{
		"user_id": userID,
		"path":    path,
		"size":    req.Size,
	})
	return file, nil
}

// topLevelTypes are the registered IANA top-level media types. The major
// type becomes a directory under the upload root, so nothing else is allowed.
var topLevelTypes = map[string]bool{
	"application": true,
	"audio":       true,
	"font":        true,
	"image":       true,
	"message":     true,
	"model":       true,
	"multipart":   true,
	"text":        true,
	"video":       true,
}

func resolveContentType(declared, filename string) string {
	if mediaType, ok := parseMediaType(declared); ok {
		return mediaType
	}
	if mediaType, ok := parseMediaType(mime.TypeByExtension(filepath.Ext(filename))); ok {
		return mediaType
	}
	return defaultContentType
}

func parseMediaType(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return "", false
	}
	major, minor, ok := strings.Cut(mediaType, "/")
	if !ok || minor == "" || !topLevelTypes[major] {
		return "", false
	}
	return mediaType, true
}

func storageKey(id, contentType, filename string) string {
	major := strings.SplitN(contentType, "/", 2)[0]

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return major + "/" + id + ext
}
