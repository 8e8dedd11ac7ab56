package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/aljannat-dev/aljannat/shared/domain"
	internal_errors "github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/aljannat-dev/aljannat/shared/logger"
	"github.com/golang-jwt/jwt/v5"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
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
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["name"] = user.Name
	claims["role"] = string(user.Role)
	claims["admin"] = user.IsAdmin()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign jwt", "user_id", user.Id, "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.Unauthenticated(fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]))
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		logger.Log.Debug("jwt rejected", "error", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal_errors.Unauthenticated("Token expired")
		}
		return nil, internal_errors.Unauthenticated("Invalid token signature")
	}

	if !token.Valid {
		return nil, internal_errors.Unauthenticated("Invalid access token")
	}

	return token, nil
}

// UserFromToken rebuilds the identity carried in the claims.
func UserFromToken(token *jwt.Token) (*domain.User, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, errInvalidClaims
	}
	role, ok := claims["role"].(string)
	if !ok || !domain.Role(role).Valid() {
		return nil, errInvalidClaims
	}
	name, _ := claims["name"].(string)

	return &domain.User{
		Id:         int64(uid),
		Name:       name,
		Email:      email,
		Role:       domain.Role(role),
		IsVerified: true,
	}, nil
}

var errInvalidClaims = internal_errors.Unauthenticated("Invalid token")
