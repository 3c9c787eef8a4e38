package outbound

import (
	"context"
	"errors"

	"github.com/tasknest/tasknest/domain/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores at most one refresh token per user.
type SessionRepository interface {
	// Save upserts the session for userID, superseding any previous token.
	Save(ctx context.Context, userID, refreshToken string) error

	// FindByToken returns the session whose current token equals
	// refreshToken exactly, or ErrSessionNotFound.
	FindByToken(ctx context.Context, refreshToken string) (*entity.Session, error)

	// Replace swaps oldToken for newToken only while oldToken is still the
	// current token of userID. It returns ErrSessionNotFound otherwise.
	Replace(ctx context.Context, userID, oldToken, newToken string) error

	// DeleteByToken removes the session holding refreshToken and reports how
	// many sessions were deleted.
	DeleteByToken(ctx context.Context, refreshToken string) (int64, error)
}
