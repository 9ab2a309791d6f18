// Package bootstrap pulls runtime configuration from the trusted peer
// service before the rest of the process is allowed to start.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"media-gate/internal/config"
	"media-gate/internal/crypto"
	"media-gate/internal/keys"
	"media-gate/internal/retry"
	apperrors "media-gate/pkg/errors"
	"media-gate/pkg/logger"
)

const (
	serverEnvPath = "/api/server-env"

	fetchTimeout  = 10 * time.Second
	retryAttempts = 3
	retryStep     = time.Second
	startupPause  = 5 * time.Second
	watchInterval = time.Minute
)

const (
	keyServerIdentity = "server_to_server_key"
	keyPayloadChain1  = "server_to_server_key_1"
	keyPayloadChain2  = "server_to_server_key_2"
)

// Keys the service cannot run without. Watch re-fetches when any of these
// goes missing from the runtime overlay.
var requiredRuntimeKeys = []string{"DATABASE_URL", "CONTENT_OWNER"}

// envResponse is the peer's wire shape: a single combined blob.
type envResponse struct {
	Data string `json:"data"`
}

// Client fetches, decrypts, and installs the peer-held environment.
type Client struct {
	peerBaseURL string
	httpClient  *http.Client
	registry    *keys.Registry
	runtime     *config.Runtime
	policy      retry.Policy
}

func NewClient(peerBaseURL string, registry *keys.Registry, runtime *config.Runtime) *Client {
	return &Client{
		peerBaseURL: peerBaseURL,
		httpClient:  &http.Client{Timeout: fetchTimeout},
		registry:    registry,
		runtime:     runtime,
		policy: retry.Policy{
			MaxAttempts: retryAttempts,
			Backoff:     retry.LinearBackoff(retryStep),
		},
	}
}

// AuthToken builds the bearer credential proving this service's identity to
// the peer: a fresh server-auth claim combined under the shared identity key.
func (c *Client) AuthToken() (string, error) {
	chain, ok := c.registry.Get(keyServerIdentity)
	if !ok {
		return "", apperrors.Configuration(errIdentityKeyMissing)
	}
	return crypto.Combine(crypto.NewServerAuthClaim(), chain, nil)
}

// FetchEnv calls the peer's server-env endpoint and decrypts the returned
// blob into the flat configuration map.
func (c *Client) FetchEnv(ctx context.Context) (map[string]string, error) {
	token, err := c.AuthToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.peerBaseURL+serverEnvPath, nil)
	if err != nil {
		return nil, apperrors.Upstream(errPeerRequestBuild, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream(errPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.Upstream(fmt.Sprintf(errPeerStatusFmt, resp.StatusCode), nil)
	}

	var payload envResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Upstream(errPeerResponseShape, err)
	}
	if payload.Data == "" {
		return nil, apperrors.Upstream(errPeerResponseShape, nil)
	}

	chain, ok := c.registry.Get(keyPayloadChain1, keyPayloadChain2)
	if !ok {
		return nil, apperrors.Configuration(errChainKeysMissing)
	}

	claim, err := crypto.Uncombine(payload.Data, chain)
	if err != nil {
		return nil, err
	}

	return claim.KeyValues()
}

// Initialize performs one fetch-and-install cycle under the retry policy.
// On success the runtime overlay and the key registry are both refreshed
// atomically (each through its own pointer swap).
func (c *Client) Initialize(ctx context.Context) error {
	return c.policy.Do(ctx, func(ctx context.Context) error {
		values, err := c.FetchEnv(ctx)
		if err != nil {
			log.Printf("bootstrap: fetch failed: %s", logger.SanitizeLogMessage(err.Error()))
			return err
		}

		c.runtime.Reload(values)
		c.registry.Reload(c.runtime)
		log.Printf("bootstrap: installed %d configuration values", len(values))
		return nil
	})
}

// Run blocks until a bootstrap cycle succeeds or ctx ends. Each failed
// cycle (itself retried internally) is followed by a fixed pause, so a
// peer outage delays startup instead of crashing the process.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.Initialize(ctx); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(startupPause):
		}
	}
}

// Watch periodically checks the required runtime keys and re-bootstraps
// when any is missing. Intended to run in its own goroutine for the life
// of the process.
func (c *Client) Watch(ctx context.Context) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			missing := c.runtime.Missing(requiredRuntimeKeys...)
			if len(missing) == 0 {
				continue
			}
			log.Printf("bootstrap: runtime keys missing %v, refreshing", missing)
			if err := c.Initialize(ctx); err != nil {
				log.Printf("bootstrap: refresh failed: %s", logger.SanitizeLogMessage(err.Error()))
			}
		}
	}
}

const (
	errIdentityKeyMissing = "server identity key not configured"
	errChainKeysMissing   = "server payload chain keys not configured"
	errPeerRequestBuild   = "failed to build peer request"
	errPeerUnreachable    = "peer unreachable"
	errPeerStatusFmt      = "peer returned status %d"
	errPeerResponseShape  = "peer response has unexpected shape"
)
