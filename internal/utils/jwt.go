package utils

import (
	"os"
	"time"

	"farmbasket_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret returns the signing key. Read at call time so it sees the value
// config.Load put into the environment; minting and validation share the same
// fallback.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"phone":   user.Phone,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}
