package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestIssuerRoundTrip(t *testing.T) {
	issuer := NewGuestIssuer("test-secret", time.Hour)

	sid, signed, err := issuer.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	require.NotEmpty(t, signed)

	parsed, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, sid, parsed)
}

func TestGuestIssuerRejectsForeignSignature(t *testing.T) {
	issuer := NewGuestIssuer("test-secret", time.Hour)
	other := NewGuestIssuer("another-secret", time.Hour)

	_, signed, err := other.Issue()
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.Error(t, err)
}

func TestGuestIssuerRejectsGarbage(t *testing.T) {
	issuer := NewGuestIssuer("test-secret", time.Hour)

	_, err := issuer.Parse("not-a-token")
	assert.Error(t, err)
}

func TestGuestIssuerRejectsExpired(t *testing.T) {
	issuer := NewGuestIssuer("test-secret", time.Nanosecond)

	_, signed, err := issuer.Issue()
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.Parse(signed)
	assert.Error(t, err)
}
