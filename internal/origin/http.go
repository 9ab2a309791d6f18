package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "media-gate/pkg/errors"
)

// OwnerLookup resolves the content-store owner segment at fetch time. The
// owner arrives via configuration bootstrap and may change on a refresh.
type OwnerLookup func() (string, bool)

// HTTPFetcher reads raw content over unauthenticated HTTP from a store laid
// out as <base>/<owner>/<repo>/raw/main/<path>.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	repo    string
	owner   OwnerLookup
}

func NewHTTPFetcher(baseURL, repo string, owner OwnerLookup, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		repo:    repo,
		owner:   owner,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	owner, ok := f.owner()
	if !ok {
		return nil, apperrors.Configuration(errOwnerNotConfigured)
	}

	url := fmt.Sprintf("%s/%s/%s/raw/main/%s", f.baseURL, owner, f.repo, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Sprintf(errBuildRequestFmt, url), err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Sprintf(errFetchFailedFmt, url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Upstream(fmt.Sprintf(errBadStatusFmt, resp.StatusCode, url), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Sprintf(errReadBodyFmt, url), err)
	}

	return body, nil
}

const (
	errOwnerNotConfigured = "content store owner not configured"
	errBuildRequestFmt    = "failed to build request for %s"
	errFetchFailedFmt     = "fetch failed for %s"
	errBadStatusFmt       = "upstream returned status %d for %s"
	errReadBodyFmt        = "failed to read body from %s"
)
