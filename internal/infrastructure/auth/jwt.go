package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a token issuer
func NewJWTIssuer(secret string, ttl time.Duration) ports.TokenIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given user
func (j *JWTIssuer) Issue(userID string, role domain.Role) (string, time.Time, error) {
	now := j.now()
	expires := now.Add(j.ttl)
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse validates the signature and expiry and returns the caller identity
func (j *JWTIssuer) Parse(token string) (*domain.Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewError(domain.ErrUnauthorized, "Token expired")
		}
		return nil, domain.NewError(domain.ErrUnauthorized, "Invalid token")
	}

	uid := strings.TrimSpace(claims.UserID)
	if uid == "" {
		return nil, domain.NewError(domain.ErrUnauthorized, "Invalid token")
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	return &domain.Claims{UserID: uid, Role: role}, nil
}
