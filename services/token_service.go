package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidToken is the single validation failure exposed to callers.
// Malformed, tampered and expired tokens all collapse into it so the
// response never leaks which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity attached to a request after token validation.
// Never persisted.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// TokenService creates and validates HS256-signed session tokens.
type TokenService struct {
	secretKey []byte
}

// NewTokenService fails on a missing secret; the process cannot serve
// authenticated traffic without one, so this is a startup error.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is empty")
	}
	return &TokenService{secretKey: []byte(secret)}, nil
}

// Issue produces a signed token for the subject with a 24-hour expiry.
func (s *TokenService) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate verifies signature and expiry and returns the embedded claims.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	exp, _ := mapClaims["exp"].(float64)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   sub,
		Role:      role,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
