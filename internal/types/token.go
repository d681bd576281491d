package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token. RegisteredClaims.ID
// carries the token id used to revoke it on logout.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// TTL returns how long the token remains valid from now.
func (c *TokenClaims) TTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	ttl := time.Until(c.ExpiresAt.Time)
	if ttl < 0 {
		return 0
	}
	return ttl
}
