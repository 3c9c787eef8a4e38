package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

// SessionRepositoryAdapter keeps one row per user. Only a salted digest of
// the refresh token is stored.
type SessionRepositoryAdapter struct {
	db   *sql.DB
	salt string
}

func NewSessionRepositoryAdapter(db *sql.DB, salt string) *SessionRepositoryAdapter {
	return &SessionRepositoryAdapter{db: db, salt: salt}
}

var _ outbound.SessionRepository = (*SessionRepositoryAdapter)(nil)

func (r *SessionRepositoryAdapter) Save(ctx context.Context, userID, refreshToken string) error {
	query := `
		INSERT INTO sessions (user_id, token_hash, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, r.hash(refreshToken)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepositoryAdapter) FindByToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	query := `
		SELECT user_id, created_at, updated_at
		FROM sessions
		WHERE token_hash = $1
	`
	session := entity.Session{RefreshToken: refreshToken}
	err := r.db.QueryRowContext(ctx, query, r.hash(refreshToken)).Scan(
		&session.UserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// Replace is a single conditional UPDATE, so Postgres row locking decides
// the winner between concurrent rotations.
func (r *SessionRepositoryAdapter) Replace(ctx context.Context, userID, oldToken, newToken string) error {
	query := `
		UPDATE sessions
		SET token_hash = $3, updated_at = NOW()
		WHERE user_id = $1 AND token_hash = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, r.hash(oldToken), r.hash(newToken))
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if affected == 0 {
		return outbound.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryAdapter) DeleteByToken(ctx context.Context, refreshToken string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, r.hash(refreshToken))
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return affected, nil
}

func (r *SessionRepositoryAdapter) hash(token string) string {
	return entity.HashRefreshToken(token, r.salt)
}
