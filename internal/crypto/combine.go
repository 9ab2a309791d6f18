package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"media-gate/internal/keys"
	apperrors "media-gate/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// envelopeClaims is the signed outer layer of a combined token. Data holds
// the chained ciphertext (or the bare payload when only one key is used).
type envelopeClaims struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

// CombineOptions tunes the signed envelope.
type CombineOptions struct {
	// ExpiresIn, when positive, stamps an expiry claim into the envelope.
	ExpiresIn time.Duration
}

// Combine encrypts data under each key in order except the last, then wraps
// the final ciphertext in an HMAC-SHA-512 signed envelope under the last
// key. Non-string payloads are serialized to JSON first. Compromising any
// single key's material is insufficient to recover the payload; every key
// in the chain is necessary.
func Combine(data any, chain []keys.SecretKey, opts *CombineOptions) (string, error) {
	if len(chain) == 0 {
		return "", apperrors.Crypto(errEmptyKeyChain)
	}

	payload, err := serialize(data)
	if err != nil {
		return "", apperrors.Crypto(errUnserializablePayload)
	}

	for _, key := range chain[:len(chain)-1] {
		payload, err = EncryptOne(payload, key.Material)
		if err != nil {
			return "", err
		}
	}

	final := chain[len(chain)-1]
	if final.Material == "" {
		return "", apperrors.Crypto(errEmptyKeyMaterial)
	}

	claims := envelopeClaims{Data: payload}
	if opts != nil && opts.ExpiresIn > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(opts.ExpiresIn))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(final.Material))
	if err != nil {
		return "", apperrors.Crypto(errEnvelopeSigning)
	}

	return signed, nil
}

// Uncombine verifies the signed envelope with the last key, then decrypts
// the chained ciphertext with the remaining keys in reverse order. An
// expired envelope returns an error matching apperrors.ErrExpired so callers
// can report "expired" distinctly from "invalid"; any other failure at any
// layer fails the whole operation.
func Uncombine(token string, chain []keys.SecretKey) (*Claim, error) {
	if token == "" || len(chain) == 0 {
		return nil, apperrors.Crypto(errEmptyKeyChain)
	}

	final := chain[len(chain)-1]

	parsed, err := jwt.ParseWithClaims(token, &envelopeClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(errUnexpectedSigningMethodFmt, t.Header["alg"])
		}
		return []byte(final.Material), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Expired(errEnvelopeExpired)
		}
		return nil, apperrors.Crypto(errEnvelopeVerification)
	}

	claims, ok := parsed.Claims.(*envelopeClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.Crypto(errEnvelopeVerification)
	}

	payload := claims.Data
	for i := len(chain) - 2; i >= 0; i-- {
		payload, err = DecryptOne(payload, chain[i].Material)
		if err != nil {
			return nil, err
		}
	}

	return &Claim{Raw: payload}, nil
}

func serialize(data any) (string, error) {
	if s, ok := data.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

const (
	errEmptyKeyChain              = "key chain is empty"
	errEmptyKeyMaterial           = "key material is empty"
	errUnserializablePayload      = "payload cannot be serialized"
	errEnvelopeSigning            = "failed to sign envelope"
	errEnvelopeVerification       = "envelope verification failed"
	errEnvelopeExpired            = "envelope expired"
	errUnexpectedSigningMethodFmt = "unexpected signing method: %v"
)
