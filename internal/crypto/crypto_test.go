package crypto_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbox/core/internal/crypto"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestNewSealer_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := crypto.NewSealer(bytes.Repeat([]byte{0x01}, n))
		assert.ErrorIs(t, err, crypto.ErrInvalidKeyLength, "key length %d", n)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	sealer, err := crypto.NewSealer(testKey())
	require.NoError(t, err)

	plain := `{"username":"alice","password":"s3cret"}`
	sealed, err := sealer.Seal(plain)
	require.NoError(t, err)
	assert.True(t, crypto.IsSealed(sealed))
	assert.NotContains(t, sealed, "s3cret")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestSeal_NoncePerCall(t *testing.T) {
	sealer, err := crypto.NewSealer(testKey())
	require.NoError(t, err)

	a, err := sealer.Seal("same")
	require.NoError(t, err)
	b, err := sealer.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_LegacyPlaintextPassesThrough(t *testing.T) {
	sealer, err := crypto.NewSealer(testKey())
	require.NoError(t, err)

	for _, stored := range []string{"", "plain secret", `{"password":"old"}`} {
		opened, err := sealer.Open(stored)
		require.NoError(t, err)
		assert.Equal(t, stored, opened)
	}
}

func TestOpen_RejectsTamperedEnvelope(t *testing.T) {
	sealer, err := crypto.NewSealer(testKey())
	require.NoError(t, err)

	sealed, err := sealer.Seal("payload")
	require.NoError(t, err)

	_, err = sealer.Open(sealed + "AAAA")
	assert.Error(t, err)

	_, err = sealer.Open("enc:v1:not-base64!!")
	assert.Error(t, err)

	_, err = sealer.Open("enc:v1:AAAA")
	assert.Error(t, err)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealer, err := crypto.NewSealer(testKey())
	require.NoError(t, err)
	other, err := crypto.NewSealer(bytes.Repeat([]byte{0x7f}, 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("payload")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)
}
