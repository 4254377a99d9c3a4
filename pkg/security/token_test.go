package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec("super-secret", "HS256")
	require.NoError(t, err)

	tok, err := codec.Generate("alice", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec("super-secret", "HS256")
	require.NoError(t, err)

	tok, err := codec.Generate("alice", 0)
	require.NoError(t, err)

	claims, err := codec.Parse(tok)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCodec_Expired(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec("super-secret", "HS256")
	require.NoError(t, err)

	tok, err := codec.Generate("alice", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := NewTokenCodec("right-secret", "HS256")
	require.NoError(t, err)
	verifier, err := NewTokenCodec("wrong-secret", "HS256")
	require.NoError(t, err)

	tok, err := signer.Generate("alice", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec("super-secret", "HS256")
	require.NoError(t, err)

	_, err = codec.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewTokenCodec_RejectsNonHMAC(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec("super-secret", "RS256")
	assert.Error(t, err)

	_, err = NewTokenCodec("super-secret", "definitely-not-an-alg")
	assert.Error(t, err)
}
