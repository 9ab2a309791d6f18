package crypto

import (
	"encoding/base64"
	"errors"
	"testing"

	apperrors "media-gate/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyMaterial = "correct-horse-battery-staple-42"

func TestEncryptDecryptOne_RoundTrip(t *testing.T) {
	plaintext := `{"c_usr":"abc123","role":"viewer"}`

	encrypted, err := EncryptOne(plaintext, testKeyMaterial)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)

	decrypted, err := DecryptOne(encrypted, testKeyMaterial)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptOne_FreshSaltAndNonce(t *testing.T) {
	// Same plaintext and key must never produce the same ciphertext.
	first, err := EncryptOne("payload", testKeyMaterial)
	require.NoError(t, err)

	second, err := EncryptOne("payload", testKeyMaterial)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptOne_WrongKey(t *testing.T) {
	encrypted, err := EncryptOne("payload", testKeyMaterial)
	require.NoError(t, err)

	_, err = DecryptOne(encrypted, "a-completely-different-key-material")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestDecryptOne_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base64", "!!not-base64!!"},
		{"too short for salt and nonce", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecryptOne(tc.input, testKeyMaterial)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrCrypto)
		})
	}
}

func TestDecryptOne_Tampered(t *testing.T) {
	encrypted, err := EncryptOne("payload", testKeyMaterial)
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xFF

	_, err = DecryptOne(base64.StdEncoding.EncodeToString(blob), testKeyMaterial)
	assert.True(t, errors.Is(err, apperrors.ErrCrypto))
}

func TestEncryptOne_KeyTooShort(t *testing.T) {
	_, err := EncryptOne("payload", "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)

	_, err = DecryptOne("anything", "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}
