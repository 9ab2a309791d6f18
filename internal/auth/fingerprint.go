package auth

import (
	"net/http"
	"regexp"
	"strings"
)

// Fingerprint is the client context a token is bound to at issuance:
// origin IP, whitespace-stripped user agent, and platform hint.
type Fingerprint struct {
	NetworkOrigin string
	UserAgent     string
	PlatformHint  string
}

const (
	headerPlatformHint = "sec-ch-ua-platform"
	unknownOrigin      = "unknown"
)

// Trusted-proxy header precedence for resolving the origin IP. Earlier
// entries win; x-forwarded-for contributes only its first element.
var originHeaders = []string{
	"x-real-ip",
	"cf-connecting-ip",
	"x-client-ip",
	"fastly-client-ip",
	"true-client-ip",
	"x-forwarded-for",
	"x-forwarded",
	"x-cluster-client-ip",
	"forwarded-for",
	"forwarded",
	"via",
	"do-connecting-ip",
	"fly-client-ip",
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	ipv4Pattern       = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
)

// FingerprintFromRequest recomputes the caller fingerprint from the live
// request. strict mode (production) discards origin values that do not look
// like a plain IPv4 address rather than trusting arbitrary header content.
func FingerprintFromRequest(r *http.Request, strict bool) Fingerprint {
	return Fingerprint{
		NetworkOrigin: ClientIP(r, strict),
		UserAgent:     whitespacePattern.ReplaceAllString(r.Header.Get("User-Agent"), ""),
		PlatformHint:  r.Header.Get(headerPlatformHint),
	}
}

// ClientIP resolves the origin IP through the trusted-proxy precedence
// chain, returning "unknown" when nothing usable is present.
func ClientIP(r *http.Request, strict bool) string {
	ip := unknownOrigin
	for _, header := range originHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		if header == "x-forwarded-for" {
			value = strings.TrimSpace(strings.Split(value, ",")[0])
			if value == "" {
				continue
			}
		}
		ip = value
		break
	}

	if strict && !ipv4Pattern.MatchString(ip) {
		return unknownOrigin
	}
	return ip
}

// Matches reports byte equality of all fingerprint fields.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.NetworkOrigin == other.NetworkOrigin &&
		f.UserAgent == other.UserAgent &&
		f.PlatformHint == other.PlatformHint
}
