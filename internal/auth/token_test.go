package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour)
	assert.NoError(t, err)

	token, err := issuer.Issue(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := issuer.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour)
	assert.NoError(t, err)

	token, err := issuer.issueAt(42, time.Now().Add(-2*time.Hour))
	assert.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, _ := NewIssuer("secret-a", time.Hour)
	other, _ := NewIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(7)
	assert.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	issuer, _ := NewIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewIssuer("   ", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestDefaultTTLIsOneWeek(t *testing.T) {
	issuer, err := NewIssuer("test-secret", 0)
	assert.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, issuer.ttl)
}
