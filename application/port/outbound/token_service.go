package outbound

import "time"

// TokenKind selects which of the two signing secrets a token belongs to.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// TokenClaims is the public projection of a user carried inside a token.
// It never contains secret material.
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// VerifyStatus is the outcome of verifying an untrusted token.
type VerifyStatus int

const (
	TokenValid VerifyStatus = iota
	TokenExpired
	TokenBadSignature
	TokenMalformed
)

func (s VerifyStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenBadSignature:
		return "bad_signature"
	default:
		return "malformed"
	}
}

// VerifyResult holds claims only when Status is TokenValid.
type VerifyResult struct {
	Status VerifyStatus
	Claims *TokenClaims
}

func (r VerifyResult) Valid() bool {
	return r.Status == TokenValid && r.Claims != nil
}

// TokenService signs and verifies tokens. Verify must not fail for any input:
// forged, expired and garbage tokens are reported through the result status.
type TokenService interface {
	Issue(claims TokenClaims, kind TokenKind, ttl time.Duration) (string, error)
	Verify(token string, kind TokenKind) VerifyResult
}
