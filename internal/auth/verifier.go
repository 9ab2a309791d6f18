package auth

import (
	"net/http"
	"time"

	"media-gate/internal/crypto"
	"media-gate/internal/keys"
	apperrors "media-gate/pkg/errors"
)

// Key names appended to every verification chain. Domain-specific keys come
// first; the suffix order is fixed.
var verifierKeySuffix = []string{"token1", "token2"}

// Verifier decodes bearer tokens through the layered cipher, checks expiry,
// and binds each claim to the fingerprint of the presenting request. A token
// replayed from a different client context fails verification.
type Verifier struct {
	registry *keys.Registry
	strict   bool
	now      func() time.Time
}

func NewVerifier(registry *keys.Registry, strict bool) *Verifier {
	return &Verifier{
		registry: registry,
		strict:   strict,
		now:      time.Now,
	}
}

// Verify decodes token using the given domain key names plus the fixed
// token1/token2 suffix, then requires an unexpired claim whose fingerprint
// byte-matches the live request. Every failure mode collapses to a single
// unauthenticated error; callers get no detail about why.
func (v *Verifier) Verify(token string, r *http.Request, domainKeys ...string) (*crypto.SessionClaim, error) {
	if token == "" {
		return nil, apperrors.Unauthorized(msgMissingToken)
	}

	names := make([]string, 0, len(domainKeys)+len(verifierKeySuffix))
	names = append(names, domainKeys...)
	names = append(names, verifierKeySuffix...)

	chain, ok := v.registry.Get(names...)
	if !ok {
		return nil, apperrors.Unauthorized(msgKeysUnavailable)
	}

	claim, err := crypto.Uncombine(token, chain)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	session, err := claim.Session()
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	if session.ExpiresAt.IsZero() || !session.ExpiresAt.After(v.now()) {
		return nil, apperrors.Unauthorized(msgExpiredToken)
	}

	issued := Fingerprint{
		NetworkOrigin: session.NetworkOrigin,
		UserAgent:     session.UserAgent,
		PlatformHint:  session.PlatformHint,
	}
	if !issued.Matches(FingerprintFromRequest(r, v.strict)) {
		return nil, apperrors.Unauthorized(msgFingerprintMismatch)
	}

	return session, nil
}

// VerifyMediaToken verifies a tokenized direct-media access grant.
func (v *Verifier) VerifyMediaToken(token string, r *http.Request) (*crypto.SessionClaim, error) {
	return v.Verify(token, r, "video_token")
}

const (
	msgMissingToken        = "missing token"
	msgKeysUnavailable     = "verification keys unavailable"
	msgInvalidToken        = "invalid token"
	msgExpiredToken        = "expired token"
	msgFingerprintMismatch = "token fingerprint mismatch"
)
