package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_HeaderPrecedence(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("x-forwarded-for", "9.9.9.9")
	r.Header.Set("x-real-ip", "1.2.3.4")

	assert.Equal(t, "1.2.3.4", ClientIP(r, false))
}

func TestClientIP_ForwardedForTakesFirstElement(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("x-forwarded-for", "5.6.7.8, 10.0.0.1, 10.0.0.2")

	assert.Equal(t, "5.6.7.8", ClientIP(r, false))
}

func TestClientIP_NoHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "unknown", ClientIP(r, false))
}

func TestClientIP_StrictRejectsNonIPv4(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("x-real-ip", "evil-injected-value")

	assert.Equal(t, "evil-injected-value", ClientIP(r, false))
	assert.Equal(t, "unknown", ClientIP(r, true))
}

func TestFingerprintFromRequest_StripsUserAgentWhitespace(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)\tGecko")
	r.Header.Set("sec-ch-ua-platform", `"Linux"`)
	r.Header.Set("x-real-ip", "1.2.3.4")

	fp := FingerprintFromRequest(r, false)
	assert.Equal(t, "Mozilla/5.0(X11;Linuxx86_64)Gecko", fp.UserAgent)
	assert.Equal(t, `"Linux"`, fp.PlatformHint)
	assert.Equal(t, "1.2.3.4", fp.NetworkOrigin)
}

func TestFingerprint_Matches(t *testing.T) {
	base := Fingerprint{NetworkOrigin: "1.2.3.4", UserAgent: "ua", PlatformHint: "p"}

	assert.True(t, base.Matches(base))
	assert.False(t, base.Matches(Fingerprint{NetworkOrigin: "1.2.3.5", UserAgent: "ua", PlatformHint: "p"}))
	assert.False(t, base.Matches(Fingerprint{NetworkOrigin: "1.2.3.4", UserAgent: "other", PlatformHint: "p"}))
	assert.False(t, base.Matches(Fingerprint{NetworkOrigin: "1.2.3.4", UserAgent: "ua", PlatformHint: ""}))
}
