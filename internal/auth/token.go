// Package auth issues and verifies identity tokens, hashes passwords and
// decides role-based authorization.
package auth

import (
	"fmt"
	"time"

	"github.com/eventplanner/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// Identity is the decoded identity claim of an authenticated caller
type Identity struct {
	UserID int
	Role   models.Role
}

// claims is the JWT payload of an access token
type claims struct {
	UserID int         `json:"user_id"`
	Role   models.Role `json:"role"`
	Type   string      `json:"type"`
	jwt.RegisteredClaims
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret            []byte
	accessTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            []byte(secret),
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken creates a signed access token carrying the user ID and role
func (tg *TokenGenerator) GenerateAccessToken(identity Identity) (string, error) {
	now := time.Now()
	c := claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(tg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the identity it carries
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tg.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return Identity{}, fmt.Errorf("token is invalid")
	}

	if c.Type != accessTokenType {
		return Identity{}, fmt.Errorf("token is not an access token")
	}

	if c.UserID <= 0 {
		return Identity{}, fmt.Errorf("user_id not found in token")
	}

	role, err := models.ParseRole(string(c.Role))
	if err != nil {
		return Identity{}, fmt.Errorf("role not found in token: %w", err)
	}

	return Identity{UserID: c.UserID, Role: role}, nil
}
