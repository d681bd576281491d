package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"

	msgNoCredentials = "Учетные данные не были предоставлены."
	msgInvalidToken  = "Недопустимый токен."
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// RequireAuth rejects requests without a valid token with 401.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		token, present := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNoCredentials})
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A token that fails validation is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if present && !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, token string) bool {
	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
		return false
	}
	c.Set(userIDKey, claims.UserID)
	c.Set(claimsKey, claims)
	return true
}

// bearerToken extracts the token from "Bearer <t>" or "Token <t>".
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || (!strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token")) {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// Claims returns the validated token claims of the request.
func Claims(c *gin.Context) *types.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.TokenClaims)
	return claims
}
