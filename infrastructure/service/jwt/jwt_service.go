package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tasknest/tasknest/application/port/outbound"
)

var (
	ErrMissingSecret = errors.New("jwt secret must not be empty")
	ErrSameSecrets   = errors.New("access and refresh secrets must differ")
)

// tokenClaims is the signed payload. The jti makes every issued token unique
// even when two are minted for the same user within one second.
type tokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens with one secret per token kind.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewJWTService(accessSecret, refreshSecret string) (*JWTService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if accessSecret == refreshSecret {
		return nil, ErrSameSecrets
	}
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}, nil
}

func (s *JWTService) secret(kind outbound.TokenKind) []byte {
	if kind == outbound.RefreshToken {
		return s.refreshSecret
	}
	return s.accessSecret
}

func (s *JWTService) Issue(claims outbound.TokenClaims, kind outbound.TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	payload := tokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(s.secret(kind))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify never returns an error; every failure is folded into the status.
func (s *JWTService) Verify(tokenString string, kind outbound.TokenKind) outbound.VerifyResult {
	if tokenString == "" {
		return outbound.VerifyResult{Status: outbound.TokenMalformed}
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret(kind), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return outbound.VerifyResult{Status: classify(err)}
	}
	if !token.Valid || claims.UserID == "" {
		return outbound.VerifyResult{Status: outbound.TokenMalformed}
	}

	return outbound.VerifyResult{
		Status: outbound.TokenValid,
		Claims: &outbound.TokenClaims{
			UserID: claims.UserID,
			Email:  claims.Email,
		},
	}
}

func classify(err error) outbound.VerifyStatus {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return outbound.TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return outbound.TokenBadSignature
	default:
		return outbound.TokenMalformed
	}
}
