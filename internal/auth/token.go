// Package auth holds the credential codec and the bearer token service used
// to authenticate organization administrators.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when a TokenService is created with a zero TTL.
const DefaultTokenTTL = 1440 * time.Minute

// Claims is the payload carried by an access token.
type Claims struct {
	AdminID        uint64 `json:"admin_id"`
	OrganizationID uint64 `json:"organization_id"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

// TokenSubject identifies the administrator a token is issued for.
type TokenSubject struct {
	AdminID        uint64
	OrganizationID uint64
	Email          string
}

// TokenService issues and verifies HMAC signed access tokens. It is safe for
// concurrent use.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret using one of
// HS256, HS384 or HS512.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for subject that expires after the TTL.
func (s *TokenService) Issue(subject TokenSubject) (string, error) {
	claims := &Claims{
		AdminID:        subject.AdminID,
		OrganizationID: subject.OrganizationID,
		Email:          subject.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its claims. It reports false for malformed
// tokens, bad signatures, any algorithm other than the configured one, and
// expired or expiry-less tokens. Strict base64 decoding makes every byte of
// the signature significant.
func (s *TokenService) Verify(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
