package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/taktakmenu/platform/internal/config"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the identity carried by an access token
type Claims struct {
	UserID   string         `json:"user_id"`
	TenantID string         `json:"tenant_id,omitempty"`
	Role     types.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenProvider issues and validates access tokens
type TokenProvider interface {
	GenerateToken(userID, tenantID string, role types.UserRole) (string, time.Time, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenProvider(cfg *config.Configuration) TokenProvider {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &jwtProvider{
		secret: []byte(cfg.Auth.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (p *jwtProvider) GenerateToken(userID, tenantID string, role types.UserRole) (string, time.Time, error) {
	issuedAt := p.now()
	expiresAt := issuedAt.Add(p.ttl)

	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return token, expiresAt, nil
}

func (p *jwtProvider) ValidateToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid token").
			Mark(ierr.ErrUnauthorized)
	}

	if !parsed.Valid || claims.UserID == "" {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}

	if err := claims.Role.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}
	return claims, nil
}
