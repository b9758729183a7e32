// Package importer turns raw catalog search results into collection
// entries: decode, sanitize, deduplicate, create, attach cover art.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"gamelog/internal/cover"
	"gamelog/internal/game"
)

// ErrMalformedPayload is returned when the raw game data cannot be decoded
// or fails sanitization.
var ErrMalformedPayload = errors.New("invalid game payload")

// Repository is the slice of collection storage the pipeline needs.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID int64) (game.Game, error)
	Create(ctx context.Context, g *game.Game) error
	EnsureStatusTerm(ctx context.Context, slug, name string) error
	AttachCover(ctx context.Context, id string, c game.Cover) error
}

// CoverFetcher downloads and stores cover art.
type CoverFetcher interface {
	Fetch(ctx context.Context, coverURL, gameID, title string) (cover.Asset, error)
}

// Result reports a successful import.
type Result struct {
	ID       string `json:"id"`
	EditPath string `json:"edit_path"`
}

type Importer struct {
	repo   Repository
	covers CoverFetcher
}

func New(repo Repository, covers CoverFetcher) *Importer {
	return &Importer{repo: repo, covers: covers}
}

// payload is the GameRecord-shaped JSON the caller sends back from search.
type payload struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	ReleaseDate string   `json:"release_date"`
	CoverURL    string   `json:"cover_url"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
}

// AddGame runs the import pipeline for one raw search result. Steps run in
// order: decode, sanitize, duplicate check, create, status term
// materialization, cover attach. The first four are fatal; the cover is
// best-effort and never fails the import.
func (im *Importer) AddGame(ctx context.Context, rawJSON, status string) (Result, error) {
	p, err := decodePayload(rawJSON)
	if err != nil {
		return Result{}, err
	}

	// Cheap pre-check for the common case; the unique index on external_id
	// is the authoritative guard when two imports race.
	if _, err := im.repo.FindByExternalID(ctx, p.ID); err == nil {
		return Result{}, game.ErrDuplicate
	} else if !errors.Is(err, game.ErrNotFound) {
		return Result{}, fmt.Errorf("duplicate check: %w", err)
	}

	slug := game.NormalizeStatus(status)
	if err := im.repo.EnsureStatusTerm(ctx, slug, game.StatusName(slug)); err != nil {
		return Result{}, fmt.Errorf("status term: %w", err)
	}

	entry := game.Game{
		ExternalID:  p.ID,
		Title:       p.Name,
		Summary:     p.Summary,
		ReleaseDate: p.ReleaseDate,
		Platforms:   p.Platforms,
		Genres:      p.Genres,
		Status:      slug,
	}
	if err := im.repo.Create(ctx, &entry); err != nil {
		if errors.Is(err, game.ErrDuplicate) {
			return Result{}, game.ErrDuplicate
		}
		return Result{}, fmt.Errorf("create entry: %w", err)
	}

	im.attachCover(ctx, entry, p.CoverURL)

	return Result{
		ID:       entry.ID,
		EditPath: "/collection/" + entry.ID,
	}, nil
}

// attachCover downloads and attaches cover art. Failures are logged and
// swallowed: a missing cover is never a reason to fail the import.
func (im *Importer) attachCover(ctx context.Context, entry game.Game, coverURL string) {
	if coverURL == "" {
		return
	}

	asset, err := im.covers.Fetch(ctx, coverURL, entry.ID, entry.Title)
	if err != nil {
		log.Printf("cover fetch failed: game_id=%s url=%s err=%v", entry.ID, coverURL, err)
		return
	}
	if err := im.repo.AttachCover(ctx, entry.ID, game.Cover{Path: asset.Path, Alt: asset.Alt}); err != nil {
		log.Printf("cover attach failed: game_id=%s err=%v", entry.ID, err)
	}
}

func decodePayload(rawJSON string) (payload, error) {
	// Some transports double-escape the quoting on the way through.
	if strings.Contains(rawJSON, `\"`) {
		rawJSON = strings.ReplaceAll(rawJSON, `\"`, `"`)
	}

	var p payload
	if err := json.Unmarshal([]byte(rawJSON), &p); err != nil {
		return payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return payload{}, fmt.Errorf("%w: game name is required", ErrMalformedPayload)
	}
	if p.ID <= 0 {
		return payload{}, fmt.Errorf("%w: catalog id is required", ErrMalformedPayload)
	}

	p.ReleaseDate = strings.TrimSpace(p.ReleaseDate)
	p.CoverURL = sanitizeURL(p.CoverURL)
	return p, nil
}

// sanitizeURL clears anything that does not parse as an absolute http(s)
// URL.
func sanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return raw
}
