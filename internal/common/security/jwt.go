package security

import (
	"errors"
	"time"

	"authbuddy/internal/common"
	"authbuddy/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an issued token.
type Claims struct {
	UserID    string
	Email     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager signs and verifies HS256 tokens. The secret is injected at
// construction, held for the process lifetime and never logged.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
	}
}

// Auth exposes the underlying verifier for use with jwtauth middleware.
func (m *TokenManager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	return tokenString, err
}

// Verify decodes tokenString, checks the signature and expiry, and returns the
// claims. Every failure mode collapses into common.ErrUnauthorized so callers
// cannot tell a tampered token from an expired one.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, common.ErrUnauthorized
	}
	token, err := jwtauth.VerifyToken(m.auth, tokenString)
	if err != nil {
		return Claims{}, common.ErrUnauthorized
	}

	private := token.PrivateClaims()
	claims := Claims{
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}
	var ok bool
	if claims.UserID, ok = private["user_id"].(string); !ok {
		return Claims{}, common.ErrUnauthorized
	}
	if claims.Email, ok = private["email"].(string); !ok {
		return Claims{}, common.ErrUnauthorized
	}
	if claims.Username, ok = private["username"].(string); !ok {
		return Claims{}, common.ErrUnauthorized
	}
	return claims, nil
}

// Helper functions to extract claims, used by middleware after jwtauth has
// verified the token.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetEmailFromClaims(claims jwt.MapClaims) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}

func GetUsernameFromClaims(claims jwt.MapClaims) (string, error) {
	username, ok := claims["username"].(string)
	if !ok {
		return "", errors.New("username claim is missing or not a string")
	}
	return username, nil
}
