package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/feedbackhub/feedbackhub/shared/revocation"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (string, domain.User, error)
	Logout(ctx context.Context, tokenId string, expiresAt time.Time) error
}

type AuthStorage interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
	revoked revocation.Store
}

func NewAuth(storage AuthStorage, jwt Jwt, revoked revocation.Store) *Auth {
	return &Auth{storage: storage, jwt: jwt, revoked: revoked}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknown emails still pay for one bcrypt comparison
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	invalid := errors.Authentication("Invalid credentials")

	user, err := a.storage.User(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			compareDummy(creds.Password)
			return "", domain.User{}, invalid
		}
		return "", domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Info("login failed: wrong password", "user_id", user.Id)
		return "", domain.User{}, invalid
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to issue token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}
	logger.Log.Info("user logged in", "user_id", user.Id, "role", user.Role)
	return token, user, nil
}

// Logout revokes the token until it would have expired anyway.
func (a *Auth) Logout(ctx context.Context, tokenId string, expiresAt time.Time) error {
	if err := a.revoked.Revoke(ctx, tokenId, expiresAt); err != nil {
		logger.Log.Error("failed to revoke token", "error", err)
		return err
	}
	return nil
}
