package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
	apperr "github.com/tasknest/tasknest/domain/error"
	"github.com/tasknest/tasknest/domain/valueobject"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

// AuthUseCase is the session manager. It is the only component that issues
// tokens or writes sessions.
type AuthUseCase struct {
	userRepository    outbound.UserRepository
	sessionRepository outbound.SessionRepository
	tokenService      outbound.TokenService
	passwordService   outbound.PasswordService
	events            outbound.AuthEventRecorder
	logger            logger.Logger
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
	newID             func() string
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	sessionRepo outbound.SessionRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	events outbound.AuthEventRecorder,
	log logger.Logger,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenService:      tokenService,
		passwordService:   passwordService,
		events:            events,
		logger:            log,
		accessTokenTTL:    accessTokenTTL,
		refreshTokenTTL:   refreshTokenTTL,
		newID:             uuid.NewString,
	}
}

var _ inbound.AuthUseCase = (*AuthUseCase)(nil)

func (uc *AuthUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.AuthResult, error) {
	creds, violations := valueobject.NewCredentials(req.Email, req.Password)
	if len(violations) > 0 {
		uc.record(ctx, "registration", "", false, map[string]interface{}{"reason": "validation"})
		return nil, validationError(violations)
	}

	existing, err := uc.userRepository.FindByEmail(ctx, creds.Email())
	switch {
	case err == nil && existing != nil:
		uc.record(ctx, "registration", "", false, map[string]interface{}{"reason": "duplicate"})
		return nil, apperr.ErrDuplicateIdentity(creds.Email())
	case err != nil && !errors.Is(err, outbound.ErrUserNotFound):
		return nil, uc.internal(ctx, "failed to look up user", err)
	}

	hash, err := uc.passwordService.HashPassword(creds.Password())
	if err != nil {
		return nil, uc.internal(ctx, "failed to hash password", err)
	}

	user := entity.NewUser(uc.newID(), creds.Email(), hash)
	if err := uc.userRepository.Create(ctx, user); err != nil {
		// A concurrent registration may win between the lookup and the insert.
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, apperr.ErrDuplicateIdentity(creds.Email())
		}
		return nil, uc.internal(ctx, "failed to create user", err)
	}

	result, err := uc.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, "registration", user.ID, true, nil)
	return result, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.AuthResult, error) {
	email := valueobject.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		uc.record(ctx, "login", "", false, map[string]interface{}{"reason": "missing_fields"})
		return nil, apperr.ErrInvalidCredentials()
	}

	user, err := uc.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			uc.record(ctx, "login", "", false, map[string]interface{}{"reason": "unknown_email"})
			return nil, apperr.ErrInvalidCredentials()
		}
		return nil, uc.internal(ctx, "failed to look up user", err)
	}

	ok, err := uc.passwordService.VerifyPassword(req.Password, user.Password)
	if err != nil {
		return nil, uc.internal(ctx, "password verification error", err)
	}
	if !ok {
		uc.record(ctx, "login", user.ID, false, map[string]interface{}{"reason": "wrong_password"})
		return nil, apperr.ErrInvalidCredentials()
	}

	result, err := uc.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, "login", user.ID, true, nil)
	return result, nil
}

// ValidateAccess checks a bearer token and never touches the session store.
func (uc *AuthUseCase) ValidateAccess(ctx context.Context, accessToken string) (*outbound.TokenClaims, error) {
	if accessToken == "" {
		return nil, apperr.ErrUnauthenticated()
	}
	result := uc.tokenService.Verify(accessToken, outbound.AccessToken)
	if !result.Valid() {
		uc.logger.Debug(ctx, "access token rejected", map[string]interface{}{
			"status": result.Status.String(),
		})
		return nil, apperr.ErrUnauthenticated()
	}
	return result.Claims, nil
}

// Refresh rotates the session. Every rejection yields the same
// Unauthenticated error; the reason is only logged.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*inbound.AuthResult, error) {
	reject := func(reason string, userID string) error {
		uc.record(ctx, "refresh", userID, false, map[string]interface{}{"reason": reason})
		return apperr.ErrUnauthenticated()
	}

	if refreshToken == "" {
		return nil, reject("missing_token", "")
	}

	claims, status := uc.verifyRefreshSignature(refreshToken)
	if claims == nil {
		return nil, reject(status.String(), "")
	}

	current, err := uc.refreshTokenIsCurrent(ctx, claims.UserID, refreshToken)
	if err != nil {
		return nil, uc.internal(ctx, "failed to read session", err)
	}
	if !current {
		logger.LogSecurityEvent(ctx, uc.logger, "stale_refresh_token", "MEDIUM", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, reject("not_current", claims.UserID)
	}

	user, err := uc.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, reject("user_gone", claims.UserID)
		}
		return nil, uc.internal(ctx, "failed to load user", err)
	}

	pair, err := uc.issuePair(user)
	if err != nil {
		return nil, uc.internal(ctx, "failed to issue tokens", err)
	}

	// The swap only succeeds while the presented token is still current, so
	// of two overlapping refreshes with the same token exactly one wins.
	if err := uc.sessionRepository.Replace(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, outbound.ErrSessionNotFound) {
			return nil, reject("lost_rotation_race", user.ID)
		}
		return nil, uc.internal(ctx, "failed to rotate session", err)
	}

	uc.record(ctx, "refresh", user.ID, true, nil)
	return newAuthResult(user, pair), nil
}

// Logout is idempotent: unknown or empty tokens delete nothing and still
// succeed.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) (*inbound.LogoutResult, error) {
	if refreshToken == "" {
		return &inbound.LogoutResult{Acknowledged: true}, nil
	}

	deleted, err := uc.sessionRepository.DeleteByToken(ctx, refreshToken)
	if err != nil {
		return nil, uc.internal(ctx, "failed to delete session", err)
	}
	uc.record(ctx, "logout", "", true, map[string]interface{}{"deleted": deleted})
	return &inbound.LogoutResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// verifyRefreshSignature is the cryptographic half of the refresh check.
func (uc *AuthUseCase) verifyRefreshSignature(token string) (*outbound.TokenClaims, outbound.VerifyStatus) {
	result := uc.tokenService.Verify(token, outbound.RefreshToken)
	if !result.Valid() {
		return nil, result.Status
	}
	return result.Claims, result.Status
}

// refreshTokenIsCurrent is the store half: the exact string must be the one
// currently held for the user the token names.
func (uc *AuthUseCase) refreshTokenIsCurrent(ctx context.Context, userID, token string) (bool, error) {
	session, err := uc.sessionRepository.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, outbound.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return session.UserID == userID, nil
}

func (uc *AuthUseCase) startSession(ctx context.Context, user *entity.User) (*inbound.AuthResult, error) {
	pair, err := uc.issuePair(user)
	if err != nil {
		return nil, uc.internal(ctx, "failed to issue tokens", err)
	}
	if err := uc.sessionRepository.Save(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, uc.internal(ctx, "failed to save session", err)
	}
	return newAuthResult(user, pair), nil
}

func (uc *AuthUseCase) issuePair(user *entity.User) (*valueobject.TokenPair, error) {
	claims := outbound.TokenClaims{UserID: user.ID, Email: user.Email}

	access, err := uc.tokenService.Issue(claims, outbound.AccessToken, uc.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	refresh, err := uc.tokenService.Issue(claims, outbound.RefreshToken, uc.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return valueobject.NewTokenPair(access, refresh), nil
}

func (uc *AuthUseCase) record(ctx context.Context, event, userID string, success bool, fields map[string]interface{}) {
	logger.LogAuthEvent(ctx, uc.logger, event, userID, success, fields)
	if uc.events != nil {
		uc.events.RecordAuthEvent(event, success)
	}
}

func (uc *AuthUseCase) internal(ctx context.Context, message string, err error) error {
	uc.logger.Error(ctx, message, err, nil)
	return apperr.ErrInternal(err)
}

func newAuthResult(user *entity.User, pair *valueobject.TokenPair) *inbound.AuthResult {
	return &inbound.AuthResult{
		User:         inbound.UserView{ID: user.ID, Email: user.Email},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

func validationError(violations map[string]error) error {
	details := make([]apperr.FieldError, 0, len(violations))
	// Stable order keeps responses deterministic.
	for _, field := range []string{"email", "password"} {
		if err, ok := violations[field]; ok {
			details = append(details, apperr.FieldError{Field: field, Message: err.Error()})
		}
	}
	return apperr.ErrValidation("validation failed", details...)
}
