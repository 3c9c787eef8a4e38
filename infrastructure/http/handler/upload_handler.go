package handler

import (
	"errors"
	"net/http"

	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/infrastructure/http/response"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadUseCase inbound.UploadUseCase
	maxBytes      int64
}

func NewUploadHandler(uploadUseCase inbound.UploadUseCase, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
		maxBytes:      maxBytes,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(w, "file too large")
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	uploaded, err := h.uploadUseCase.Upload(r.Context(), userID, inbound.UploadRequest{
		Name:        r.FormValue("name"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, uploaded)
}
