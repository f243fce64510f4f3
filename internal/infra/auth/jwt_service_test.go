package auth

import (
	"testing"
	"time"

	"yumbook/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = secret
	cfg.Auth.AccessTokenTTL = 8 * 24 * time.Hour
	cfg.Auth.ResetTokenTTL = 15 * time.Minute

	return cfg
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc, err := NewJWTService(newTestTokenConfig("test_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	subject := uuid.New()

	token, err := svc.Issue(subject, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService(newTestTokenConfig("test_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	// A token issued with a negative ttl is already past its expiry.
	token, err := svc.Issue(uuid.New(), -time.Second)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	svc, err := NewJWTService(newTestTokenConfig("test_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	for _, token := range []string{"", "clearly-not-a-jwt", "a.b.c"} {
		got, err := svc.Verify(token)
		assert.Error(t, err, "expected rejection for %q", token)
		assert.Equal(t, uuid.Nil, got)
	}
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTService(newTestTokenConfig("issuer_secret_key_very_long_for_testing"))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestTokenConfig("another_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	token, err := issuer.Issue(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_ConfiguredTTLs(t *testing.T) {
	svc, err := NewJWTService(newTestTokenConfig("test_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	assert.Equal(t, 8*24*time.Hour, svc.AccessTokenTTL())
	assert.Equal(t, 15*time.Minute, svc.ResetTokenTTL())
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(newTestTokenConfig(""))
	assert.Error(t, err)
}
