package usecase

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/application/port/inbound"
	apperr "github.com/tasknest/tasknest/domain/error"
	blobstore "github.com/tasknest/tasknest/infrastructure/adapter/storage"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

func newUploadFixture(maxBytes int64) (*UploadUseCase, *mockFileRepository, *mockBlobStorage) {
	files := &mockFileRepository{}
	storage := newMockBlobStorage()
	uc := NewUploadUseCase(files, storage, logger.NewNopLogger(), maxBytes)
	uc.newID = func() string { return "fixed-id" }
	return uc, files, storage
}

func TestUploadUseCase_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under the major type", func(t *testing.T) {
		uc, files, storage := newUploadFixture(1024)

		file, err := uc.Upload(ctx, "user-1", inbound.UploadRequest{
			Name:        "avatar",
			Filename:    "Me.PNG",
			ContentType: "image/png",
			Size:        4,
			Body:        strings.NewReader("\x89PNG"),
		})
		require.NoError(t, err)

		assert.Equal(t, "/static/image/fixed-id.png", file.Path)
		assert.Equal(t, "avatar", file.Name)
		assert.Equal(t, "image/png", file.Type)
		assert.Equal(t, "user-1", file.UserID)
		assert.Equal(t, []byte("\x89PNG"), storage.objects["image/fixed-id.png"])
		require.Len(t, files.files, 1)
		assert.Same(t, file, files.files[0])
	})

	t.Run("name defaults to filename", func(t *testing.T) {
		uc, _, _ := newUploadFixture(0)

		file, err := uc.Upload(ctx, "user-1", inbound.UploadRequest{
			Filename:    "notes.txt",
			ContentType: "text/plain; charset=utf-8",
			Body:        strings.NewReader("hello"),
		})
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", file.Name)
		assert.Equal(t, "text/plain", file.Type)
		assert.Equal(t, "/static/text/fixed-id.txt", file.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		uc, files, _ := newUploadFixture(0)

		_, err := uc.Upload(ctx, "user-1", inbound.UploadRequest{Name: "x"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Empty(t, files.files)
	})

	t.Run("too large", func(t *testing.T) {
		uc, _, storage := newUploadFixture(3)

		_, err := uc.Upload(ctx, "user-1", inbound.UploadRequest{Filename: "a.txt", Size: 4, Body: strings.NewReader("abcd")})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Empty(t, storage.objects)
	})

	t.Run("storage failure", func(t *testing.T) {
		uc, files, storage := newUploadFixture(0)
		storage.err = errStoreDown

		_, err := uc.Upload(ctx, "user-1", inbound.UploadRequest{Filename: "a.txt", Body: strings.NewReader("a")})
		assert.True(t, apperr.IsKind(err, apperr.KindInternal))
		assert.Empty(t, files.files)
	})
}

func TestResolveContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", resolveContentType("image/jpeg", "x"))
	assert.Equal(t, "application/pdf", resolveContentType("", "doc.pdf"))
	assert.Equal(t, defaultContentType, resolveContentType("garbage", "noext"))
	assert.Equal(t, "image/png", resolveContentType("../png", "x.png"))
	assert.Equal(t, defaultContentType, resolveContentType("evil/x", "noext"))
}

func TestUploadUseCase_UnknownMajorTypeStaysInsideUploadRoot(t *testing.T) {
	root := t.TempDir()
	uc := NewUploadUseCase(&mockFileRepository{}, blobstore.NewDiskStorage(root, "/static"), logger.NewNopLogger(), 1024)
	uc.newID = func() string { return "fixed-id" }

	tests := []struct {
		contentType string
		filename    string
		wantPath    string
	}{
		{"../png", "a.png", "/static/image/fixed-id.png"},
		{"./x", "notes.bin", "/static/application/fixed-id.bin"},
		{"evil/x", "a.txt", "/static/text/fixed-id.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			file, err := uc.Upload(context.Background(), "user-1", inbound.UploadRequest{
				Filename:    tt.filename,
				ContentType: tt.contentType,
				Size:        2,
				Body:        strings.NewReader("hi"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, file.Path)
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Contains(t, []string{"application", "image", "text"}, e.Name())
	}
}
