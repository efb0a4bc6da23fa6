package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateToken creates a signed session token for the given user ID.
// The token expires after the specified duration.
func GenerateToken(secret, subject, email string, duration time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
}

// ExtractIDFromToken extracts the user ID (subject) from a valid token string.
func ExtractIDFromToken(secret, tokenString string) (string, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
