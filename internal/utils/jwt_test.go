package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(testSecret, 42, "a@x.com", "USER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "USER", claims.Role)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(testSecret, 1, "a@x.com", "USER", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, tok.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(testSecret, 1, "a@x.com", "USER", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	require.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseAccessToken_Tampered(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(testSecret, 1, "a@x.com", "USER", 15)
	require.NoError(t, err)

	// Flipping any byte must fail verification, never yield other claims.
	raw := []byte(tok.Token)
	for i := 0; i < len(raw); i += 7 {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		_, err := ParseAccessToken(testSecret, string(mutated))
		require.Error(t, err, "tampered token at byte %d must not verify", i)
	}
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not.a.jwt", "a.b", "%%%"} {
		_, err := ParseAccessToken(testSecret, raw)
		require.ErrorIs(t, err, ErrTokenMalformed, "raw=%q", raw)
	}
}
