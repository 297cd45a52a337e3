package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT sets the signing secret for token generation and validation.
// Must be called once at startup before any token operation.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// SessionClaims identify the principal a request acts for. Admin tokens
// are issued only through the admin login flow.
type SessionClaims struct {
	Address string `json:"address"`
	Admin   bool   `json:"admin"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionJWT issues a principal token for a wallet address.
func GenerateSessionJWT(address string, ttl time.Duration) (string, error) {
	return signClaims(&SessionClaims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
}

// GenerateAdminJWT issues an admin token bound to the platform owner
// address, so admin requests carry the owner principal.
func GenerateAdminJWT(ownerAddress, email string, ttl time.Duration) (string, error) {
	return signClaims(&SessionClaims{
		Address: ownerAddress,
		Admin:   true,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
}

func signClaims(claims *SessionClaims) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT parses and verifies a token, returning its claims.
func ValidateJWT(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
