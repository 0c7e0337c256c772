// Package auth issues and verifies the bearer tokens the collaboration
// layer checks on every join.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Jaganravi131/DesignSync/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
)

// Claims embeds the registered claims plus the identity fields the login
// endpoint signs into every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func GenerateToken(userID domain.UserID, email string, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: string(userID),
		Email:  email,
	})
	return token.SignedString(secret)
}

// VerifyToken checks signature and expiry and returns the embedded claims.
func VerifyToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parse: %w", err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyIdentity verifies the token and additionally requires its embedded
// identity to equal the claimed one, exact string match. Any failure is
// ErrUnauthorized; callers never learn which check tripped.
func VerifyIdentity(tokenString string, claimed domain.UserID, secret []byte) (domain.UserID, error) {
	claims, err := VerifyToken(tokenString, secret)
	if err != nil {
		return "", ErrUnauthorized
	}
	if claims.UserID != string(claimed) {
		return "", ErrUnauthorized
	}
	return domain.UserID(claims.UserID), nil
}
