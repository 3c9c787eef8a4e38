package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/port/outbound"
	apperr "github.com/tasknest/tasknest/domain/error"
	"github.com/tasknest/tasknest/infrastructure/service/jwt"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

type authFixture struct {
	uc       *AuthUseCase
	users    *mockUserRepository
	sessions *mockSessionRepository
	tokens   *jwt.JWTService
	events   *mockEventRecorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := jwt.NewJWTService("access-secret", "refresh-secret")
	require.NoError(t, err)

	f := &authFixture{
		users:    newMockUserRepository(),
		sessions: newMockSessionRepository(),
		tokens:   tokens,
		events:   new(mockEventRecorder),
	}
	f.events.On("RecordAuthEvent", mock.Anything, mock.Anything).Return()
	f.uc = NewAuthUseCase(f.users, f.sessions, tokens, fakePasswordService{}, f.events,
		logger.NewNopLogger(), 2*time.Hour, 15*24*time.Hour)
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) *inbound.AuthResult {
	t.Helper()
	result, err := f.uc.Register(context.Background(), inbound.RegisterRequest{Email: email, Password: password})
	require.NoError(t, err)
	return result
}

func TestAuthUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and session", func(t *testing.T) {
		f := newAuthFixture(t)

		result := f.register(t, "Alice@Example.com", "password123")

		assert.Equal(t, "alice@example.com", result.User.Email)
		assert.NotEmpty(t, result.User.ID)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, result.RefreshToken, f.sessions.current(result.User.ID))
		assert.Equal(t, "hashed:password123", f.users.users[result.User.ID].Password)

		claims, err := f.uc.ValidateAccess(ctx, result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		f.events.AssertCalled(t, "RecordAuthEvent", "registration", true)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "alice@example.com", "password123")

		_, err := f.uc.Register(ctx, inbound.RegisterRequest{Email: "ALICE@example.com", Password: "password456"})

		assert.True(t, apperr.IsKind(err, apperr.KindDuplicateIdentity))
		assert.Len(t, f.users.users, 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.uc.Register(ctx, inbound.RegisterRequest{Email: "nope", Password: "short"})

		require.True(t, apperr.IsKind(err, apperr.KindValidation))
		details := apperr.As(err).Details
		require.Len(t, details, 2)
		assert.Equal(t, "email", details[0].Field)
		assert.Equal(t, "password", details[1].Field)
		assert.Empty(t, f.users.users)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.findErr = errStoreDown

		_, err := f.uc.Register(ctx, inbound.RegisterRequest{Email: "alice@example.com", Password: "password123"})

		assert.True(t, apperr.IsKind(err, apperr.KindInternal))
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("supersedes previous session", func(t *testing.T) {
		f := newAuthFixture(t)
		registered := f.register(t, "alice@example.com", "password123")

		loggedIn, err := f.uc.Login(ctx, inbound.LoginRequest{Email: "alice@example.com", Password: "password123"})
		require.NoError(t, err)

		assert.Equal(t, registered.User, loggedIn.User)
		assert.NotEqual(t, registered.RefreshToken, loggedIn.RefreshToken)
		assert.Equal(t, loggedIn.RefreshToken, f.sessions.current(registered.User.ID))
		assert.Len(t, f.sessions.byUser, 1)

		_, err = f.uc.Refresh(ctx, registered.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "alice@example.com", "password999"},
		{"unknown email", "bob@example.com", "password123"},
		{"empty fields", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			registered := f.register(t, "alice@example.com", "password123")

			_, err := f.uc.Login(ctx, inbound.LoginRequest{Email: tt.email, Password: tt.password})

			require.True(t, apperr.IsKind(err, apperr.KindInvalidCredentials))
			assert.Equal(t, "invalid email or password", apperr.As(err).Message)
			assert.Equal(t, registered.RefreshToken, f.sessions.current(registered.User.ID))
		})
	}
}

func TestAuthUseCase_ValidateAccess(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	result := f.register(t, "alice@example.com", "password123")

	claims, err := f.uc.ValidateAccess(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, outbound.TokenClaims{UserID: result.User.ID, Email: "alice@example.com"}, *claims)

	for name, token := range map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"refresh token": result.RefreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.ValidateAccess(ctx, token)
			assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
		})
	}

	t.Run("expired", func(t *testing.T) {
		expired, err := f.tokens.Issue(*claims, outbound.AccessToken, -time.Second)
		require.NoError(t, err)

		_, err = f.uc.ValidateAccess(ctx, expired)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the session", func(t *testing.T) {
		f := newAuthFixture(t)
		first := f.register(t, "alice@example.com", "password123")

		second, err := f.uc.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, first.User, second.User)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
		assert.Equal(t, second.RefreshToken, f.sessions.current(first.User.ID))

		_, err = f.uc.Refresh(ctx, first.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated), "reused token must fail")

		third, err := f.uc.Refresh(ctx, second.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, third.RefreshToken, f.sessions.current(first.User.ID))
	})

	t.Run("rejections are indistinguishable", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")
		claims := outbound.TokenClaims{UserID: result.User.ID, Email: result.User.Email}

		unstored, err := f.tokens.Issue(claims, outbound.RefreshToken, time.Hour)
		require.NoError(t, err)
		expired, err := f.tokens.Issue(claims, outbound.RefreshToken, -time.Second)
		require.NoError(t, err)

		inputs := map[string]string{
			"empty":        "",
			"garbage":      "garbage",
			"access token": result.AccessToken,
			"not stored":   unstored,
			"expired":      expired,
		}
		for name, token := range inputs {
			_, err := f.uc.Refresh(ctx, token)
			require.Error(t, err, name)
			assert.Equal(t, apperr.ErrUnauthenticated().Error(), err.Error(), name)
		}
		assert.Equal(t, result.RefreshToken, f.sessions.current(result.User.ID))
		f.events.AssertCalled(t, "RecordAuthEvent", "refresh", false)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		f := newAuthFixture(t)
		alice := f.register(t, "alice@example.com", "password123")
		bob := f.register(t, "bob@example.com", "password123")

		// Bob's stored token relabelled as Alice's session.
		f.sessions.byUser[alice.User.ID] = bob.RefreshToken
		delete(f.sessions.byUser, bob.User.ID)

		_, err := f.uc.Refresh(ctx, bob.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})

	t.Run("user removed", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")
		delete(f.users.users, result.User.ID)

		_, err := f.uc.Refresh(ctx, result.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})

	t.Run("store failure is internal", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")
		f.sessions.failWith = errStoreDown

		_, err := f.uc.Refresh(ctx, result.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	})

	t.Run("overlapping refreshes have one winner", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")

		const attempts = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners []string
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := f.uc.Refresh(ctx, result.RefreshToken)
				if err == nil {
					mu.Lock()
					winners = append(winners, out.RefreshToken)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Len(t, winners, 1)
		assert.Equal(t, winners[0], f.sessions.current(result.User.ID))
	})
}

func TestAuthUseCase_RefreshPredicates(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	result := f.register(t, "alice@example.com", "password123")

	t.Run("signature only", func(t *testing.T) {
		claims, status := f.uc.verifyRefreshSignature(result.RefreshToken)
		require.NotNil(t, claims)
		assert.Equal(t, outbound.TokenValid, status)

		claims, status = f.uc.verifyRefreshSignature(result.AccessToken)
		assert.Nil(t, claims)
		assert.Equal(t, outbound.TokenBadSignature, status)
	})

	t.Run("store membership only", func(t *testing.T) {
		ok, err := f.uc.refreshTokenIsCurrent(ctx, result.User.ID, result.RefreshToken)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.uc.refreshTokenIsCurrent(ctx, "someone-else", result.RefreshToken)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = f.uc.refreshTokenIsCurrent(ctx, result.User.ID, "never-issued")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAuthUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session once", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")

		out, err := f.uc.Logout(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, &inbound.LogoutResult{Acknowledged: true, DeletedCount: 1}, out)

		out, err = f.uc.Logout(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, &inbound.LogoutResult{Acknowledged: true, DeletedCount: 0}, out)

		_, err = f.uc.Refresh(ctx, result.RefreshToken)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})

	t.Run("empty token", func(t *testing.T) {
		f := newAuthFixture(t)

		out, err := f.uc.Logout(ctx, "")
		require.NoError(t, err)
		assert.True(t, out.Acknowledged)
		assert.Zero(t, out.DeletedCount)
	})

	t.Run("access tokens stay valid until expiry", func(t *testing.T) {
		f := newAuthFixture(t)
		result := f.register(t, "alice@example.com", "password123")

		_, err := f.uc.Logout(ctx, result.RefreshToken)
		require.NoError(t, err)

		_, err = f.uc.ValidateAccess(ctx, result.AccessToken)
		assert.NoError(t, err)
	})
}
