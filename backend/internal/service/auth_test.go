package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type MockAuthStorage struct {
	userFunc func(email domain.Email) (domain.User, error)
	gotEmail domain.Email
}

func (m *MockAuthStorage) User(_ context.Context, email domain.Email) (domain.User, error) {
	m.gotEmail = email
	if m.userFunc != nil {
		return m.userFunc(email)
	}
	return domain.User{}, errors.NotFound("User not found")
}

type MockJwt struct {
	newTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.newTokenFunc != nil {
		return m.newTokenFunc(user)
	}
	return fmt.Sprintf("token-for-%d", user.Id), nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// --- Tests ---

func TestLogin(t *testing.T) {
	ctx := context.Background()
	stored := domain.User{Id: 2, Email: "alice@example.com", Role: domain.RoleBusiness, PassHash: mustHash(t, "secret")}
	storage := &MockAuthStorage{userFunc: func(email domain.Email) (domain.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return domain.User{}, errors.NotFound("User not found")
	}}
	s := NewAuth(storage, &MockJwt{}, revocation.NewMemoryStore())

	t.Run("success normalises email", func(t *testing.T) {
		token, user, err := s.Login(ctx, domain.Credentials{Email: " Alice@Example.COM ", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "token-for-2", token)
		assert.Equal(t, stored.Id, user.Id)
		assert.Equal(t, "alice@example.com", storage.gotEmail)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, domain.Credentials{Email: "alice@example.com", Password: "nope"})
		assert.True(t, errors.IsKind(err, errors.KindAuthentication))
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		_, _, err := s.Login(ctx, domain.Credentials{Email: "ghost@example.com", Password: "secret"})
		e, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.KindAuthentication, e.Kind)
		assert.Equal(t, "Invalid credentials", e.Message)
	})

	t.Run("storage failure is not masked", func(t *testing.T) {
		failing := NewAuth(&MockAuthStorage{userFunc: func(domain.Email) (domain.User, error) {
			return domain.User{}, fmt.Errorf("db down")
		}}, &MockJwt{}, revocation.NewMemoryStore())
		_, _, err := failing.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"})
		assert.EqualError(t, err, "db down")
	})

	t.Run("token failure", func(t *testing.T) {
		broken := NewAuth(storage, &MockJwt{newTokenFunc: func(domain.User) (string, error) {
			return "", fmt.Errorf("signing failed")
		}}, revocation.NewMemoryStore())
		_, _, err := broken.Login(ctx, domain.Credentials{Email: "alice@example.com", Password: "secret"})
		assert.Error(t, err)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := revocation.NewMemoryStore()
	s := NewAuth(&MockAuthStorage{}, &MockJwt{}, store)

	require.NoError(t, s.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
