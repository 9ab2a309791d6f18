// Package pipeline implements the gated media load: descriptor lookup,
// access decision, origin fetch, format sniffing, optional resampling, and
// mandatory obfuscation for preview-tier responses.
package pipeline

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"media-gate/internal/auth"
	"media-gate/internal/crypto"
	"media-gate/internal/domain/media"
	"media-gate/internal/imaging"
	"media-gate/internal/origin"
	"media-gate/internal/repository"
	apperrors "media-gate/pkg/errors"
	"media-gate/pkg/logger"
)

const (
	// Obfuscated previews are short-lived; raw content is immutable.
	cacheControlObfuscated = "public, max-age=3600"
	cacheControlImmutable  = "public, max-age=31536000, immutable"

	obfuscationBlurRadius = 100

	sessionTokenHeader = "c-user"
	sessionDomainKey   = "c_user"
	bearerPrefix       = "Bearer "

	minQualityPercent = 1
	maxQualityPercent = 100
)

// Some stored paths carry a stale .jpg suffix from an earlier naming
// scheme; a failed fetch is retried once with everything from ".jpg"
// onward removed.
var legacyJPGSuffix = regexp.MustCompile(`\.jpg.*$`)

// Result is a fully-resolved response body with its caching directives.
type Result struct {
	Body         []byte
	ContentType  string
	CacheControl string
	Obfuscated   bool
}

// Pipeline resolves one media request end to end. All dependencies are
// injected; the zero value is not usable.
type Pipeline struct {
	content  repository.ContentRepository
	users    repository.UserRepository
	verifier *auth.Verifier
	fetcher  origin.Fetcher
	webp     imaging.WebPDecoder
	renderer *imaging.Renderer
	now      func() time.Time
}

func New(
	content repository.ContentRepository,
	users repository.UserRepository,
	verifier *auth.Verifier,
	fetcher origin.Fetcher,
	webp imaging.WebPDecoder,
	renderer *imaging.Renderer,
) *Pipeline {
	return &Pipeline{
		content:  content,
		users:    users,
		verifier: verifier,
		fetcher:  fetcher,
		webp:     webp,
		renderer: renderer,
		now:      time.Now,
	}
}

// Load runs the full pipeline for one request path. rawPath is everything
// after the route prefix; qualityParam is the raw query value and may be
// empty or garbage.
//
// Failure modes are deliberately coarse: a missing, unreadable, or errored
// descriptor lookup all surface as not-found, and identity resolution
// failures downgrade to anonymous rather than erroring. Denied access is
// the only failure that names itself.
func (p *Pipeline) Load(ctx context.Context, r *http.Request, rawPath, qualityParam string) (*Result, error) {
	path, err := sanitizePath(rawPath)
	if err != nil {
		return nil, err
	}

	uniqueID, err := extractUniqueID(path)
	if err != nil {
		return nil, err
	}

	descriptor, err := p.content.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		log.Printf("pipeline: descriptor lookup failed for %s: %s", uniqueID, logger.SanitizeLogMessage(err.Error()))
		return nil, apperrors.NotFound(msgContentNotFound)
	}

	identity := p.resolveIdentity(ctx, r)
	decision := auth.Decide(*descriptor, identity, p.now())
	if !decision.Allowed && !decision.MustObfuscate {
		return nil, apperrors.Forbidden(msgAccessDenied)
	}

	body, format, err := p.loadValidated(ctx, path)
	if err != nil {
		log.Printf("pipeline: origin load failed for %s: %s", uniqueID, logger.SanitizeLogMessage(err.Error()))
		return nil, err
	}

	scale, hasScale := parseQuality(qualityParam)

	if decision.MustObfuscate {
		return p.renderObfuscated(body, format, scale, hasScale)
	}

	if hasScale {
		out, err := p.renderScaled(body, format, scale)
		if err == nil {
			return out, nil
		}
		// Resampling is best-effort for callers already cleared to see
		// the content; the original bytes still satisfy the request.
		log.Printf("pipeline: resize failed, serving original: %s", logger.SanitizeLogMessage(err.Error()))
	}

	return &Result{
		Body:         body,
		ContentType:  format.ContentType(),
		CacheControl: cacheControlImmutable,
	}, nil
}

// renderObfuscated always decodes and re-encodes. A quality value cannot be
// used to skip processing, and an undecodable body (including WebP without
// the decoding capability) fails the request instead of leaking raw bytes.
func (p *Pipeline) renderObfuscated(body []byte, format imaging.Format, scale float64, hasScale bool) (*Result, error) {
	img, err := imaging.Decode(body, format, p.webp)
	if err != nil {
		return nil, err
	}

	factor := 1.0
	if hasScale {
		factor = scale
	}

	canvas := imaging.Scale(img, factor)
	p.renderer.Apply(canvas, obfuscationBlurRadius)

	encoded, err := imaging.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}

	return &Result{
		Body:         encoded,
		ContentType:  "image/png",
		CacheControl: cacheControlObfuscated,
		Obfuscated:   true,
	}, nil
}

func (p *Pipeline) renderScaled(body []byte, format imaging.Format, scale float64) (*Result, error) {
	img, err := imaging.Decode(body, format, p.webp)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(imaging.Scale(img, scale))
	if err != nil {
		return nil, err
	}

	return &Result{
		Body:         encoded,
		ContentType:  "image/png",
		CacheControl: cacheControlImmutable,
	}, nil
}

// resolveIdentity turns the caller's credential into an authenticated
// identity: the session token header, or a bearer media token granting
// tokenized direct access. Any failure along the way means the caller
// proceeds anonymous; the gate then decides what an anonymous caller may
// see.
func (p *Pipeline) resolveIdentity(ctx context.Context, r *http.Request) *media.Identity {
	session := p.verifySession(r)
	if session == nil {
		return nil
	}

	identity, err := p.users.GetBySessionRef(ctx, session.SessionRef)
	if err != nil {
		log.Printf("pipeline: identity lookup failed: %s", logger.SanitizeLogMessage(err.Error()))
		return nil
	}

	return identity
}

func (p *Pipeline) verifySession(r *http.Request) *crypto.SessionClaim {
	if token := r.Header.Get(sessionTokenHeader); token != "" {
		session, err := p.verifier.Verify(token, r, sessionDomainKey)
		if err != nil {
			return nil
		}
		return session
	}

	if bearer := r.Header.Get("Authorization"); strings.HasPrefix(bearer, bearerPrefix) {
		session, err := p.verifier.VerifyMediaToken(strings.TrimPrefix(bearer, bearerPrefix), r)
		if err != nil {
			return nil
		}
		return session
	}

	return nil
}

// loadValidated fetches and sniffs the body, retrying once with the stale
// .jpg suffix stripped when either step fails. The retry covers validation
// too: an HTML error page stored under the suffixed path must not mask a
// good image under the bare one. When the retry also fails, its failure is
// the one surfaced.
func (p *Pipeline) loadValidated(ctx context.Context, path string) ([]byte, imaging.Format, error) {
	body, format, err := p.fetchAndSniff(ctx, path)
	if err == nil {
		return body, format, nil
	}

	stripped := legacyJPGSuffix.ReplaceAllString(path, "")
	if stripped == path || stripped == "" {
		return nil, imaging.FormatUnknown, err
	}

	return p.fetchAndSniff(ctx, stripped)
}

func (p *Pipeline) fetchAndSniff(ctx context.Context, path string) ([]byte, imaging.Format, error) {
	body, err := p.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, imaging.FormatUnknown, err
	}

	format, err := imaging.Sniff(body)
	if err != nil {
		return nil, imaging.FormatUnknown, err
	}

	return body, format, nil
}

// sanitizePath percent-decodes the request path and rejects traversal and
// junk characters before it can reach the origin URL.
func sanitizePath(raw string) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.BadRequest(msgMalformedPath)
	}

	decoded = strings.TrimLeft(decoded, "/")
	if decoded == "" {
		return "", apperrors.NotFound(msgContentNotFound)
	}

	if strings.Contains(decoded, "..") ||
		strings.Contains(decoded, "\\") ||
		strings.ContainsAny(decoded, "\x00\r\n") {
		return "", apperrors.BadRequest(msgMalformedPath)
	}

	return decoded, nil
}

// extractUniqueID reads the content identifier from the second path
// segment. Paths without at least three segments cannot name stored
// content.
func extractUniqueID(path string) (string, error) {
	segments := strings.Split(path, "/")
	if len(segments) <= 2 || segments[1] == "" {
		return "", apperrors.NotFound(msgContentNotFound)
	}
	return segments[1], nil
}

// parseQuality interprets the quality query value. Values strictly between
// 0 and 1 are scale factors; values from 1 to 100 are percentages.
// Anything else (absent, non-numeric, zero, negative, out of range) means
// no resampling.
func parseQuality(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case q > 0 && q < 1:
		return q, true
	case q >= minQualityPercent && q <= maxQualityPercent:
		return q / 100, true
	default:
		return 0, false
	}
}

const (
	msgContentNotFound = "content not found"
	msgAccessDenied    = "access denied"
	msgMalformedPath   = "malformed content path"
)
