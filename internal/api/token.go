package api

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// mintGameToken issues a bearer token scoped to a single game. Presenting
// it is what authorizes moves on that game.
func mintGameToken(secret, gameID, playerID string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token secret is not configured")
	}

	claims := jwt.MapClaims{
		"sub":    gameID,
		"player": playerID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// verifyGameToken checks the signature and returns the game id the token is
// scoped to.
func verifyGameToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token has no game scope")
	}
	return sub, nil
}
