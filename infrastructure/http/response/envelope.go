package response

import (
	"encoding/json"
	"net/http"

	apperr "github.com/tasknest/tasknest/domain/error"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Code    apperr.ErrorCode    `json:"code"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// JSON writes data as the bare response body.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders err by its kind. Internal causes never reach the body.
func Error(w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.ErrInternal(nil)
	}
	JSON(w, appErr.Status(), ErrorBody{
		Status:  false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  appErr.Details,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, apperr.ErrInvalidRequest(message))
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, apperr.ErrUnauthenticated())
}

func NotFound(w http.ResponseWriter, resource string) {
	Error(w, apperr.ErrNotFound(resource))
}

func InternalServerError(w http.ResponseWriter) {
	Error(w, apperr.ErrInternal(nil))
}
