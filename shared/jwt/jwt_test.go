package jwt

import (
	"testing"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	"github.com/feedbackhub/feedbackhub/shared/errors"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secretKey = "testJwtKey"
var user = domain.User{Id: 42, Email: "b_user10@example.org", Role: domain.RoleBusiness}

func TestDecodeTokenCorrect(t *testing.T) {
	j := New(secretKey, 10*time.Second)
	token, err := j.NewToken(user)
	require.NoError(t, err)

	claims, err := j.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserId(42), claims.User.Id)
	assert.Equal(t, user.Email, claims.User.Email)
	assert.Equal(t, domain.RoleBusiness, claims.User.Role)
	assert.NotEmpty(t, claims.TokenId)
	assert.WithinDuration(t, time.Now().Add(10*time.Second), claims.ExpiresAt, 2*time.Second)
}

func TestDecodeTokenUniqueIds(t *testing.T) {
	j := New(secretKey, time.Minute)
	a, err := j.NewToken(user)
	require.NoError(t, err)
	b, err := j.NewToken(user)
	require.NoError(t, err)

	ca, err := j.DecodeToken(a)
	require.NoError(t, err)
	cb, err := j.DecodeToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenId, cb.TokenId)
}

func TestDecodeTokenExpired(t *testing.T) {
	j := New(secretKey, time.Minute)
	j.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := j.NewToken(user)
	require.NoError(t, err)

	_, err = New(secretKey, time.Minute).DecodeToken(token)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAuthentication))
}

func TestDecodeTokenInvalidSecretKey(t *testing.T) {
	token, err := New(secretKey, time.Minute).NewToken(user)
	require.NoError(t, err)

	_, err = New("invalidSecret", time.Minute).DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeTokenStringUid(t *testing.T) {
	claims := gojwt.MapClaims{
		"uid":  "42",
		"role": "business",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)

	decoded, err := New(secretKey, time.Minute).DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, decoded.User.Id)
}

func TestDecodeTokenBadClaims(t *testing.T) {
	sign := func(c gojwt.MapClaims) string {
		s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString([]byte(secretKey))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Minute).Unix()
	j := New(secretKey, time.Minute)

	_, err := j.DecodeToken(sign(gojwt.MapClaims{"uid": 1, "role": "root", "exp": exp}))
	assert.Error(t, err, "unknown role")

	_, err = j.DecodeToken(sign(gojwt.MapClaims{"uid": 1.5, "role": "admin", "exp": exp}))
	assert.Error(t, err, "fractional uid")

	_, err = j.DecodeToken(sign(gojwt.MapClaims{"role": "admin", "exp": exp}))
	assert.Error(t, err, "missing uid")

	_, err = j.DecodeToken(sign(gojwt.MapClaims{"uid": 1, "role": "admin"}))
	assert.Error(t, err, "missing exp")
}
