package pipeline

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"media-gate/internal/infra/cache"
)

const (
	markPath         = "/favicon.ico"
	markCacheKey     = "brand-mark"
	markCacheTTL     = time.Hour
	markFetchTimeout = 5 * time.Second
	markMaxBytes     = 1 << 20
)

// NewMarkProvider returns a provider for the brand mark drawn onto
// obfuscated previews, fetched from the peer service and cached. Every
// failure returns nil; the renderer degrades to a label-only preview.
func NewMarkProvider(peerBaseURL string, assets *cache.AssetCache) func() image.Image {
	client := &http.Client{Timeout: markFetchTimeout}

	return func() image.Image {
		data, ok := assets.Get(markCacheKey)
		if !ok {
			fetched, err := fetchMark(client, peerBaseURL+markPath)
			if err != nil {
				log.Printf("pipeline: brand mark fetch failed: %v", err)
				return nil
			}
			assets.Set(markCacheKey, fetched, time.Now().Add(markCacheTTL))
			data = fetched
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil
		}
		return img
	}
}

func fetchMark(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errMarkStatus(resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, markMaxBytes))
}

type errMarkStatus int

func (e errMarkStatus) Error() string {
	return "brand mark endpoint returned status " + strconv.Itoa(int(e))
}
