package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media-gate/internal/crypto"
	"media-gate/internal/keys"
	apperrors "media-gate/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

func newTestRegistry(t *testing.T) *keys.Registry {
	t.Helper()
	return keys.NewRegistry(mapEnv{
		"C_USER": "c-user-key-material-0123456789ab",
		"TOKEN1": "token-one-key-material-012345678",
		"TOKEN2": "token-two-key-material-012345678",
	})
}

func issueSessionToken(t *testing.T, registry *keys.Registry, session crypto.SessionClaim) string {
	t.Helper()

	chain, ok := registry.Get("c_user", "token1", "token2")
	require.True(t, ok)

	token, err := crypto.Combine(session, chain, nil)
	require.NoError(t, err)
	return token
}

func sessionRequest(origin, userAgent, platform string) *http.Request {
	r := httptest.NewRequest("GET", "/load/image/content/abc/pic.png", nil)
	r.Header.Set("x-real-ip", origin)
	r.Header.Set("User-Agent", userAgent)
	r.Header.Set("sec-ch-ua-platform", platform)
	return r
}

func TestVerifier_ValidToken(t *testing.T) {
	registry := newTestRegistry(t)
	v := NewVerifier(registry, false)

	token := issueSessionToken(t, registry, crypto.SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(time.Hour),
		UserAgent:     "Mozilla/5.0Test",
		NetworkOrigin: "1.2.3.4",
		PlatformHint:  `"Linux"`,
	})

	session, err := v.Verify(token, sessionRequest("1.2.3.4", "Mozilla/5.0 Test", `"Linux"`), "c_user")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.SessionRef)
}

func TestVerifier_MissingToken(t *testing.T) {
	v := NewVerifier(newTestRegistry(t), false)

	_, err := v.Verify("", sessionRequest("1.2.3.4", "ua", "p"), "c_user")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_ExpiredClaim(t *testing.T) {
	registry := newTestRegistry(t)
	v := NewVerifier(registry, false)

	token := issueSessionToken(t, registry, crypto.SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(-time.Minute),
		UserAgent:     "ua",
		NetworkOrigin: "1.2.3.4",
	})

	_, err := v.Verify(token, sessionRequest("1.2.3.4", "ua", ""), "c_user")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_FingerprintMismatch(t *testing.T) {
	registry := newTestRegistry(t)
	v := NewVerifier(registry, false)

	issued := crypto.SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(time.Hour),
		UserAgent:     "Mozilla/5.0Test",
		NetworkOrigin: "1.2.3.4",
		PlatformHint:  `"Linux"`,
	}
	token := issueSessionToken(t, registry, issued)

	cases := []struct {
		name    string
		request *http.Request
	}{
		{"different IP", sessionRequest("5.6.7.8", "Mozilla/5.0 Test", `"Linux"`)},
		{"different user agent", sessionRequest("1.2.3.4", "curl/8.0", `"Linux"`)},
		{"different platform", sessionRequest("1.2.3.4", "Mozilla/5.0 Test", `"Windows"`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(token, tc.request, "c_user")
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestVerifier_TamperedToken(t *testing.T) {
	registry := newTestRegistry(t)
	v := NewVerifier(registry, false)

	token := issueSessionToken(t, registry, crypto.SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(time.Hour),
		UserAgent:     "ua",
		NetworkOrigin: "1.2.3.4",
	})

	_, err := v.Verify(token+"x", sessionRequest("1.2.3.4", "ua", ""), "c_user")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_MediaToken(t *testing.T) {
	registry := keys.NewRegistry(mapEnv{
		"VIDEO_TOKEN": "video-token-key-material-0123456",
		"TOKEN1":      "token-one-key-material-012345678",
		"TOKEN2":      "token-two-key-material-012345678",
	})
	v := NewVerifier(registry, false)

	chain, ok := registry.Get("video_token", "token1", "token2")
	require.True(t, ok)

	token, err := crypto.Combine(crypto.SessionClaim{
		SessionRef:    "sess-1",
		ExpiresAt:     time.Now().Add(time.Hour),
		UserAgent:     "ua",
		NetworkOrigin: "1.2.3.4",
	}, chain, nil)
	require.NoError(t, err)

	session, err := v.VerifyMediaToken(token, sessionRequest("1.2.3.4", "ua", ""))
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.SessionRef)
}

func TestVerifier_MissingDomainKey(t *testing.T) {
	registry := keys.NewRegistry(mapEnv{
		"TOKEN1": "token-one-key-material-012345678",
		"TOKEN2": "token-two-key-material-012345678",
	})
	v := NewVerifier(registry, false)

	_, err := v.Verify("some-token", sessionRequest("1.2.3.4", "ua", ""), "c_user")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
