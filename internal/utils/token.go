package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAuthToken builds and signs an HS256 JWT identifying a user. It is
// returned in the x-auth-token header when an account is created; the
// API itself does not gate any route on it, so there is no expiry
// refresh machinery here. Claims: subject (sub), name, issued at (iat).
func NewAuthToken(secret string, userID uint64, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
