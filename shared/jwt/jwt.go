package jwt

import (
	"fmt"
	"time"

	"github.com/feedbackhub/feedbackhub/shared/domain"
	internal_errors "github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/feedbackhub/feedbackhub/shared/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what the identity middleware needs from a decoded token.
type Claims struct {
	User      domain.User
	TokenId   string
	ExpiresAt time.Time
}

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{}
	claims["uid"] = int64(user.Id)
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["jti"] = uuid.NewString()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, internal_errors.Authentication("Invalid access token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, internal_errors.Authentication("Invalid access token")
	}

	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	invalid := internal_errors.Authentication("Invalid token claims")

	uid, err := idClaim(m["uid"])
	if err != nil {
		return nil, invalid
	}
	email, _ := m["email"].(string)
	roleStr, _ := m["role"].(string)
	role, ok := domain.ParseRole(roleStr)
	if !ok {
		return nil, invalid
	}
	jti, _ := m["jti"].(string)
	exp, err := m.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, invalid
	}

	return &Claims{
		User:      domain.User{Id: uid, Email: email, Role: role},
		TokenId:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

// idClaim accepts the uid as a JSON number or a decimal string.
func idClaim(v any) (domain.UserId, error) {
	switch x := v.(type) {
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("uid is not an integer")
		}
		return domain.UserId(int64(x)), nil
	case string:
		return domain.ParseId(x)
	case int64:
		return domain.UserId(x), nil
	default:
		return 0, fmt.Errorf("uid has unexpected type %T", v)
	}
}
