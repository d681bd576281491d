package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues and validates bearer tokens.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	ttl       time.Duration
	denylist  TokenDenylist
}

// NewAuthService creates an AuthService. denylist may be nil, in which case
// logout cannot revoke tokens server side.
func NewAuthService(db *gorm.DB, jwtSecret string, ttl time.Duration, denylist TokenDenylist) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		denylist:  denylist,
	}
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req types.LoginRequest) (string, error) {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required.Error(msgRequired)),
		validation.Field(&req.Password, validation.Required.Error(msgRequired)),
	)
	if err != nil {
		return "", fromValidation(err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken(&user)
}

// GenerateToken signs a token for user with a fresh id.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses tokenString and rejects revoked tokens.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail open when the denylist is unreachable.
			logging.Warn("token denylist lookup failed", err)
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.TTL())
}
