package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-that-is-32-chars-!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, "HS256", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewTokenService("", "HS256", time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-hmac algorithm", func(t *testing.T) {
		_, err := NewTokenService(testSecret, "RS256", time.Hour)
		assert.Error(t, err)
		_, err = NewTokenService(testSecret, "none", time.Hour)
		assert.Error(t, err)
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		svc, err := NewTokenService(testSecret, "HS512", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultTokenTTL, svc.TTL())
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	token, err := svc.Issue(TokenSubject{AdminID: 7, OrganizationID: 3, Email: "admin@acme.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := svc.Verify(token)
	require.True(t, ok)
	assert.Equal(t, uint64(7), claims.AdminID)
	assert.Equal(t, uint64(3), claims.OrganizationID)
	assert.Equal(t, "admin@acme.com", claims.Email)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(TokenSubject{AdminID: 1, OrganizationID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	for i := range token {
		if token[i] == '.' {
			continue
		}
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, ok := svc.Verify(string(b))
		assert.False(t, ok, "byte %d altered", i)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService(t)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(TokenSubject{AdminID: 1, OrganizationID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	svc.now = time.Now
	_, ok := svc.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc := newTestTokenService(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokenService("another-secret", "HS256", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(TokenSubject{AdminID: 1})
		require.NoError(t, err)
		_, ok := svc.Verify(token)
		assert.False(t, ok)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
			AdminID:          1,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, ok := svc.Verify(token)
		assert.False(t, ok)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			AdminID:          1,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, ok := svc.Verify(token)
		assert.False(t, ok)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{AdminID: 1}).
			SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, ok := svc.Verify(token)
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		for _, token := range []string{"", "not.a.valid.token", "abc", "..."} {
			_, ok := svc.Verify(token)
			assert.False(t, ok, token)
		}
	})
}
