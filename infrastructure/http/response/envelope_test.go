package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperr "github.com/tasknest/tasknest/domain/error"
)

func TestError_RendersKind(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   apperr.ErrorCode
	}{
		{"validation", apperr.ErrValidation("bad", apperr.FieldError{Field: "email", Message: "invalid"}), http.StatusBadRequest, apperr.ErrCodeValidation},
		{"unauthenticated", apperr.ErrUnauthenticated(), http.StatusUnauthorized, apperr.ErrCodeUnauthenticated},
		{"access denied", apperr.ErrAccessDenied(), http.StatusForbidden, apperr.ErrCodeAccessDenied},
		{"foreign error", errors.New("pq: connection refused"), http.StatusInternalServerError, apperr.ErrCodeInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestJSON_WritesBareBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}
