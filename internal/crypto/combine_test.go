package crypto

import (
	"testing"
	"time"

	"media-gate/internal/keys"
	apperrors "media-gate/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChain(materials ...string) []keys.SecretKey {
	chain := make([]keys.SecretKey, 0, len(materials))
	for i, m := range materials {
		chain = append(chain, keys.SecretKey{
			Name:      "key" + string(rune('a'+i)),
			Material:  m,
			Algorithm: "HS512",
		})
	}
	return chain
}

func TestCombineUncombine_SingleKey(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	token, err := Combine("hello world", chain, nil)
	require.NoError(t, err)

	claim, err := Uncombine(token, chain)
	require.NoError(t, err)
	assert.Equal(t, "hello world", claim.Raw)
}

func TestCombineUncombine_MultiKeyChain(t *testing.T) {
	chain := testChain(
		"first-layer-key-material-000001",
		"second-layer-key-material-00002",
		"envelope-signing-key-material-3",
	)

	payload := map[string]string{"DATABASE_URL": "postgres://localhost/app"}

	token, err := Combine(payload, chain, nil)
	require.NoError(t, err)

	claim, err := Uncombine(token, chain)
	require.NoError(t, err)

	values, err := claim.KeyValues()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/app", values["DATABASE_URL"])
}

func TestUncombine_EveryKeyIsNecessary(t *testing.T) {
	chain := testChain(
		"first-layer-key-material-000001",
		"second-layer-key-material-00002",
		"envelope-signing-key-material-3",
	)

	token, err := Combine("secret payload", chain, nil)
	require.NoError(t, err)

	for i := range chain {
		altered := testChain(
			"first-layer-key-material-000001",
			"second-layer-key-material-00002",
			"envelope-signing-key-material-3",
		)
		altered[i].Material = "substituted-key-material-999999"

		_, err := Uncombine(token, altered)
		assert.Error(t, err, "chain with key %d substituted must fail", i)
	}
}

func TestUncombine_ExpiredIsDistinct(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	token, err := Combine("payload", chain, &CombineOptions{ExpiresIn: -time.Minute})
	require.NoError(t, err)

	_, err = Uncombine(token, chain)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExpired)
	assert.NotErrorIs(t, err, apperrors.ErrCrypto)
}

func TestUncombine_UnexpiredEnvelope(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	token, err := Combine("payload", chain, &CombineOptions{ExpiresIn: time.Hour})
	require.NoError(t, err)

	claim, err := Uncombine(token, chain)
	require.NoError(t, err)
	assert.Equal(t, "payload", claim.Raw)
}

func TestUncombine_GarbageToken(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	_, err := Uncombine("not.a.token", chain)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestCombine_EmptyChain(t *testing.T) {
	_, err := Combine("payload", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)

	_, err = Uncombine("token", nil)
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestClaim_SessionShape(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	session := SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(time.Hour),
		UserAgent:     "Mozilla/5.0",
		NetworkOrigin: "1.2.3.4",
		PlatformHint:  `"Linux"`,
	}

	token, err := Combine(session, chain, nil)
	require.NoError(t, err)

	claim, err := Uncombine(token, chain)
	require.NoError(t, err)

	decoded, err := claim.Session()
	require.NoError(t, err)
	assert.Equal(t, "sess-1", decoded.SessionRef)
	assert.Equal(t, "1.2.3.4", decoded.NetworkOrigin)
}

func TestClaim_SessionRejectsMissingRef(t *testing.T) {
	claim := &Claim{Raw: `{"user-agent":"x"}`}
	_, err := claim.Session()
	assert.ErrorIs(t, err, apperrors.ErrCrypto)
}

func TestClaim_ServerAuthShape(t *testing.T) {
	chain := testChain("signing-key-material-0123456789")

	token, err := Combine(NewServerAuthClaim(), chain, nil)
	require.NoError(t, err)

	claim, err := Uncombine(token, chain)
	require.NoError(t, err)

	auth, err := claim.ServerAuth()
	require.NoError(t, err)
	assert.Equal(t, "server_auth", auth.Type)
	assert.WithinDuration(t, time.Now(), auth.Timestamp, time.Minute)
}
