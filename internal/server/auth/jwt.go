package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mathrevise/backend/internal/common"
	"github.com/mathrevise/backend/internal/server/models"
)

// Claims embeds the registered claims plus the identity fields the command
// layer needs for authorization decisions.
type Claims struct {
	jwt.RegisteredClaims
	Username    string             `json:"username"`
	AccessLevel models.AccessLevel `json:"access_level"`
}

// GenerateToken mints a signed HS256 access token for a logged-in user.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Username:    user.Username,
		AccessLevel: user.AccessLevel,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
