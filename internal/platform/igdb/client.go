// Package igdb is a minimal client for the IGDB game catalog API
// (Apicalypse query dialect, Twitch OAuth client-credentials auth).
package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable wraps transport failures and undecodable responses from
// the catalog. Callers decide presentation; it is never collapsed into an
// empty result set.
var ErrUnavailable = errors.New("igdb: catalog unavailable")

const gameFields = "id,name,summary,first_release_date,platforms.name,genres.name,cover.url"

// Game is a normalized catalog record.
type Game struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	ReleaseDate string   `json:"release_date"`
	CoverURL    string   `json:"cover_url"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
}

// rawGame matches the wire shape of /v4/games items.
type rawGame struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Summary          string `json:"summary"`
	FirstReleaseDate int64  `json:"first_release_date"`
	Platforms        []struct {
		Name string `json:"name"`
	} `json:"platforms"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Cover struct {
		URL string `json:"url"`
	} `json:"cover"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	tokens     *TokenSource
	limiter    *rate.Limiter
}

// NewClient builds a catalog client. The IGDB public rate limit is 4
// requests per second.
func NewClient(clientID, clientSecret string) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Client{
		httpClient: httpClient,
		baseURL:    "https://api.igdb.com/v4",
		clientID:   clientID,
		tokens:     NewTokenSource(clientID, clientSecret, httpClient),
		limiter:    rate.NewLimiter(rate.Every(time.Second/4), 1),
	}
}

// SearchGames runs a free-text search and returns normalized records. An
// empty query returns an empty slice without touching the network.
func (c *Client) SearchGames(ctx context.Context, query string, limit int) ([]Game, error) {
	if strings.TrimSpace(query) == "" {
		return []Game{}, nil
	}

	apicalypse := fmt.Sprintf("search %q; fields %s; limit %d;", query, gameFields, limit)
	raw, err := c.request(ctx, "games", apicalypse)
	if err != nil {
		return nil, err
	}

	games := make([]Game, 0, len(raw))
	for _, rg := range raw {
		games = append(games, normalize(rg))
	}
	return games, nil
}

// GetGameDetails looks up a single game by catalog id. Returns nil when
// the id is unknown.
func (c *Client) GetGameDetails(ctx context.Context, id int64) (*Game, error) {
	apicalypse := fmt.Sprintf("fields %s; where id = %d;", gameFields, id)
	raw, err := c.request(ctx, "games", apicalypse)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	g := normalize(raw[0])
	return &g, nil
}

func (c *Client) request(ctx context.Context, endpoint, apicalypse string) ([]rawGame, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(apicalypse))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token went stale; next request will re-exchange.
		c.tokens.Invalidate()
		io.Copy(io.Discard, resp.Body)
		return nil, ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrUnavailable, resp.StatusCode)
	}

	var raw []rawGame
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return raw, nil
}

func normalize(rg rawGame) Game {
	g := Game{
		ID:        rg.ID,
		Name:      rg.Name,
		Summary:   rg.Summary,
		Platforms: make([]string, 0, len(rg.Platforms)),
		Genres:    make([]string, 0, len(rg.Genres)),
	}

	if rg.FirstReleaseDate > 0 {
		g.ReleaseDate = time.Unix(rg.FirstReleaseDate, 0).UTC().Format("2006-01-02")
	}

	g.CoverURL = normalizeCoverURL(rg.Cover.URL)

	for _, p := range rg.Platforms {
		if p.Name != "" {
			g.Platforms = append(g.Platforms, p.Name)
		}
	}
	for _, genre := range rg.Genres {
		if genre.Name != "" {
			g.Genres = append(g.Genres, genre.Name)
		}
	}
	return g
}

// normalizeCoverURL upgrades the thumbnail size token to the big cover
// variant and makes scheme-relative URLs explicit.
func normalizeCoverURL(coverURL string) string {
	if coverURL == "" {
		return ""
	}
	coverURL = strings.Replace(coverURL, "t_thumb", "t_cover_big", 1)
	if strings.HasPrefix(coverURL, "//") {
		coverURL = "https:" + coverURL
	}
	return coverURL
}
