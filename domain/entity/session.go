package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is the single current refresh token held for a user. Issuing a
// new one for the same user replaces it.
type Session struct {
	UserID       string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewSession(userID, refreshToken string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HashRefreshToken returns the hex digest stored in place of a raw refresh
// token. Equal inputs always produce equal digests, so exact-string matching
// is preserved.
func HashRefreshToken(raw, salt string) string {
	sum := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(sum[:])
}
