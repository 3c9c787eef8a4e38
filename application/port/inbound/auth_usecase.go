package inbound

import (
	"context"

	"github.com/tasknest/tasknest/application/port/outbound"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the public projection of a user returned to clients.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResult is returned by every operation that establishes a session.
type AuthResult struct {
	User         UserView `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type LogoutResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// AuthUseCase drives the session lifecycle.
type AuthUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ValidateAccess(ctx context.Context, accessToken string) (*outbound.TokenClaims, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) (*LogoutResult, error)
}
