// Package auth issues and verifies the signed access tokens that gate the
// protected API routes. Tokens are HS256 JWTs carrying the user id and
// username; expiry is the only invalidation mechanism.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fitplan/internal/common"
)

// Claims extends the registered JWT claims with the authenticated identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken mints a signed token for the given identity, valid for
// validityDuration from now.
func GenerateToken(userID int64, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and validity window of tokenString and
// returns its claims. Expired tokens yield common.ErrTokenExpired; anything
// else that fails verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
