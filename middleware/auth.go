package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "auth.user_id"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Authenticator verifies HS256 bearer tokens
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Verify returns the user id carried by the token, from "user_id" or "sub"
func (a *Authenticator) Verify(raw string) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	for _, claim := range []string{"user_id", "sub"} {
		if id, ok := claims[claim].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no user id claim", ErrInvalidToken)
}

// Auth rejects requests without a valid bearer token and stores the user id
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var userID string
			userID, err = a.Verify(raw)
			if err == nil {
				c.Set(UserIDKey, userID)
				c.Next()
				return
			}
		}

		message := "Invalid token"
		switch {
		case errors.Is(err, ErrMissingToken):
			message = "Not authenticated"
		case errors.Is(err, ErrExpiredToken):
			message = "Token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
	}
}

// UserID returns the authenticated user id set by Auth
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
