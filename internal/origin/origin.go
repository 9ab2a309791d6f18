package origin

import "context"

// Fetcher retrieves raw media bytes for a content path from the remote
// store. Implementations must honor the context deadline; a slow upstream
// must never hold a request open indefinitely.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
