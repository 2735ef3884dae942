// Package auth issues and verifies the signed tokens that carry a caller's
// identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// Claims are the registered claims plus the user id and role the board
// authorizes on.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// GenerateToken signs an HS256 token for userID acting as role.
func GenerateToken(userID string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Role:   string(role),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns the identity it carries. Every
// failure is common.ErrUnauthenticated with a hint telling an expired token
// apart from any other problem.
func ParseToken(tokenString string, secretKey []byte) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, common.Hintf(common.ErrUnauthenticated, "token is expired, try again")
		}
		return models.Identity{}, common.Hintf(common.ErrUnauthenticated, "token is invalid, try again")
	}

	if !token.Valid || claims.UserID == "" {
		return models.Identity{}, common.Hintf(common.ErrUnauthenticated, "token is invalid, try again")
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return models.Identity{}, common.Hintf(common.ErrUnauthenticated, "token is invalid, try again")
	}

	return models.Identity{UserID: claims.UserID, Role: role}, nil
}
