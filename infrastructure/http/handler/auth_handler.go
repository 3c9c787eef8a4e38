package handler

import (
	"net/http"
	"time"

	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/infrastructure/http/response"
	"github.com/tasknest/tasknest/infrastructure/http/validator"
)

const RefreshCookieName = "refreshToken"

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
	cookie      CookieConfig
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.authUseCase.Register(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.OK(w, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.OK(w, result)
}

// Refresh rotates the session held in the refresh cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.authUseCase.Refresh(r.Context(), refreshTokenFrom(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	response.OK(w, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	result, err := h.authUseCase.Logout(r.Context(), refreshTokenFrom(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	h.clearRefreshCookie(w)
	response.OK(w, result)
}

func refreshTokenFrom(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookie.MaxAge / time.Second),
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
