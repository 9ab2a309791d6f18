package crypto

import (
	"encoding/json"
	"time"

	apperrors "media-gate/pkg/errors"
)

// Claim is the decrypted payload carried by a combined token. Raw holds the
// exact plaintext; the typed accessors validate it into one of the closed
// claim shapes before any field is trusted.
type Claim struct {
	Raw string
}

// SessionClaim binds a caller session to the client context it was issued
// for. The fingerprint fields must byte-match the live request.
type SessionClaim struct {
	SessionRef    string    `json:"c_usr"`
	ExpiresAt     time.Time `json:"expiresAt"`
	UserAgent     string    `json:"user-agent"`
	NetworkOrigin string    `json:"x-forwarded-for"`
	PlatformHint  string    `json:"sec-ch-ua-platform"`
}

// ServerAuthClaim authenticates this service to its trusted peer during
// configuration bootstrap.
type ServerAuthClaim struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

const serverAuthClaimType = "server_auth"

// NewServerAuthClaim stamps a server-auth claim with the current time.
func NewServerAuthClaim() ServerAuthClaim {
	return ServerAuthClaim{Type: serverAuthClaimType, Timestamp: time.Now().UTC()}
}

// Session decodes the claim as a caller session. The session reference must
// be present.
func (c *Claim) Session() (*SessionClaim, error) {
	var session SessionClaim
	if err := json.Unmarshal([]byte(c.Raw), &session); err != nil {
		return nil, apperrors.Crypto(errClaimShape)
	}
	if session.SessionRef == "" {
		return nil, apperrors.Crypto(errClaimShape)
	}
	return &session, nil
}

// ServerAuth decodes the claim as a peer-authentication claim.
func (c *Claim) ServerAuth() (*ServerAuthClaim, error) {
	var auth ServerAuthClaim
	if err := json.Unmarshal([]byte(c.Raw), &auth); err != nil {
		return nil, apperrors.Crypto(errClaimShape)
	}
	if auth.Type != serverAuthClaimType {
		return nil, apperrors.Crypto(errClaimShape)
	}
	return &auth, nil
}

// KeyValues decodes the claim as a flat string map, the shape the peer uses
// for bootstrap configuration payloads.
func (c *Claim) KeyValues() (map[string]string, error) {
	var values map[string]string
	if err := json.Unmarshal([]byte(c.Raw), &values); err != nil {
		return nil, apperrors.Crypto(errClaimShape)
	}
	return values, nil
}

const errClaimShape = "claim payload has unexpected shape"
