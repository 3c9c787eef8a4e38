package middleware

import (
	"context"
	"net/http"

	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/infrastructure/http/response"
	"github.com/tasknest/tasknest/infrastructure/http/validator"
)

type authUserKey struct{}

// AuthMiddleware guards routes with the access token check of the session
// manager.
type AuthMiddleware struct {
	auth inbound.AuthUseCase
}

func NewAuthMiddleware(auth inbound.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := validator.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := m.auth.ValidateAccess(r.Context(), token)
		if err != nil {
			response.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
	})
}

func WithUserClaims(ctx context.Context, claims *outbound.TokenClaims) context.Context {
	return context.WithValue(ctx, authUserKey{}, claims)
}

// GetUserClaims retrieves user claims from context
func GetUserClaims(ctx context.Context) *outbound.TokenClaims {
	if claims, ok := ctx.Value(authUserKey{}).(*outbound.TokenClaims); ok {
		return claims
	}
	return nil
}
