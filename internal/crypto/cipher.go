package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	apperrors "media-gate/pkg/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength       = 16
	nonceLength      = 12
	derivedKeyLength = 32
	pbkdf2Iterations = 100000
	minKeyMaterial   = 16
)

// ErrMalformedInput and ErrAuthentication both unwrap to apperrors.ErrCrypto,
// so callers cannot distinguish a forged token from a truncated one. The
// split exists for server-side diagnostics only.
var (
	ErrMalformedInput = fmt.Errorf("%w: input shorter than salt and nonce", apperrors.ErrCrypto)
	ErrAuthentication = fmt.Errorf("%w: incorrect key or corrupted data", apperrors.ErrCrypto)
)

// EncryptOne encrypts plaintext under a single key's material. A 256-bit AES
// key is derived with PBKDF2 (SHA-256, 100k iterations) over a fresh random
// salt, then sealed with AES-GCM under a fresh random nonce. Output is
// base64(salt || nonce || ciphertext || tag).
func EncryptOne(plaintext, keyMaterial string) (string, error) {
	if len(keyMaterial) < minKeyMaterial {
		return "", apperrors.Crypto(errKeyTooShort)
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", apperrors.Crypto(errRandomSource)
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", apperrors.Crypto(errRandomSource)
	}

	aead, err := newAEAD(keyMaterial, salt)
	if err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, saltLength+nonceLength+len(sealed))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, sealed...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptOne is the exact inverse of EncryptOne.
func DecryptOne(encoded, keyMaterial string) (string, error) {
	if len(keyMaterial) < minKeyMaterial {
		return "", apperrors.Crypto(errKeyTooShort)
	}
	if encoded == "" {
		return "", ErrMalformedInput
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformedInput
	}

	if len(blob) < saltLength+nonceLength {
		return "", ErrMalformedInput
	}

	salt := blob[:saltLength]
	nonce := blob[saltLength : saltLength+nonceLength]
	sealed := blob[saltLength+nonceLength:]

	aead, err := newAEAD(keyMaterial, salt)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrAuthentication
	}

	return string(plaintext), nil
}

func newAEAD(keyMaterial string, salt []byte) (cipher.AEAD, error) {
	derived := pbkdf2.Key([]byte(keyMaterial), salt, pbkdf2Iterations, derivedKeyLength, sha256.New)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, apperrors.Crypto(errCipherInit)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Crypto(errCipherInit)
	}

	return aead, nil
}

const (
	errKeyTooShort  = "key material must be at least 16 characters long"
	errRandomSource = "failed to read from random source"
	errCipherInit   = "failed to initialize cipher"
)
