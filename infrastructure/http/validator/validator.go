package validator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperr "github.com/tasknest/tasknest/domain/error"
)

const maxJSONBody = 1 << 20

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return apperr.ErrInvalidRequest("content type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.ErrInvalidRequest("request body is required")
		case errors.As(err, &maxErr):
			return apperr.ErrInvalidRequest("request body too large")
		default:
			return apperr.ErrInvalidRequest("invalid JSON body")
		}
	}
	if dec.More() {
		return apperr.ErrInvalidRequest("request body must contain a single JSON object")
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is absent or malformed.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return ""
	}
	return token
}
