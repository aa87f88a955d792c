package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// AccessTokenValidity bounds tokens minted here (test fixtures and tooling;
// production tokens come from the platform's identity service with the same secret).
const AccessTokenValidity = time.Hour * 24

// GenerateToken mints a signed access token for the given user id.
func GenerateToken(userID uint, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}

	claims := jwt.MapClaims{
		"id":  float64(userID),
		"exp": time.Now().Add(AccessTokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims verifies the token signature and expiry and returns its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// UserIDFromToken resolves the user id carried by a token. It returns 0 for a
// missing, malformed or expired token: the realtime handshake treats that as an
// anonymous identity rather than a handshake failure.
func UserIDFromToken(tokenString string, secret string) uint {
	if tokenString == "" {
		return 0
	}
	claims, err := ValidateAndGetClaims(tokenString, secret)
	if err != nil {
		return 0
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0
	}
	return uint(id)
}
