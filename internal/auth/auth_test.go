package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager(Config{Secret: "s3cret", Issuer: "leadership"})
	token, exp, err := m.Issue("alice", "alice@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultTokenTTL), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.SubjectID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.CanAccess("bob"))
}

func TestParseRejectsBadTokens(t *testing.T) {
	m := NewManager(Config{Secret: "s3cret", Issuer: "leadership"})

	_, err := m.Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager(Config{Secret: "other", Issuer: "leadership"})
	token, _, err := other.Issue("alice", "", "")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewManager(Config{Secret: "s3cret", Issuer: "someone-else"})
	token, _, err = wrongIssuer.Issue("alice", "", "")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager(Config{Secret: "s3cret", TokenTTL: time.Minute})
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := m.Issue("alice", "", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager(Config{Secret: "s3cret"}).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDisabledManager(t *testing.T) {
	m := NewManager(Config{})
	assert.False(t, m.Enabled())
	_, _, err := m.Issue("alice", "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = m.Parse("x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), Claims{SubjectID: "alice"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.True(t, claims.CanAccess("alice"))
	assert.False(t, claims.CanAccess("bob"))
}
