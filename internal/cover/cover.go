// Package cover downloads catalog cover images and stores them as local
// assets.
package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Asset is a stored cover image reference.
type Asset struct {
	Path string
	Alt  string
}

// Store persists cover image bytes under a stable filename.
type Store interface {
	Save(filename string, data []byte) (string, error)
	Remove(path string) error
}

var errEmptyBody = errors.New("cover: empty response body")

type Fetcher struct {
	httpClient *http.Client
	store      Store
}

func NewFetcher(store Store) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
	}
}

// Fetch downloads the image at coverURL and stores it for gameID. The
// filename is deterministic in gameID, so re-fetching overwrites rather
// than accumulating files. Callers treat any error as best-effort: a
// missing cover never fails an import.
func (f *Fetcher) Fetch(ctx context.Context, coverURL, gameID, title string) (Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return Asset{}, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Asset{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Asset{}, fmt.Errorf("cover: unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, err
	}
	if len(data) == 0 {
		return Asset{}, errEmptyBody
	}

	filename := fmt.Sprintf("game-cover-%s.%s", gameID, fileExtension(coverURL))
	storedPath, err := f.store.Save(filename, data)
	if err != nil {
		return Asset{}, err
	}

	asset := Asset{Path: storedPath}
	if title != "" {
		asset.Alt = fmt.Sprintf("Cover art for %s", title)
	}
	return asset, nil
}

// fileExtension derives the extension from the URL path, defaulting to jpg.
func fileExtension(coverURL string) string {
	u, err := url.Parse(coverURL)
	if err != nil {
		return "jpg"
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}
