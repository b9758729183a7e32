package game

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrNotFound is returned when a collection entry does not exist.
	ErrNotFound = errors.New("game not found")
	// ErrDuplicate is returned when an entry with the same catalog ID
	// already exists in the collection.
	ErrDuplicate = errors.New("game already in collection")
	// ErrInvalidRating is returned for ratings outside [1,10].
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
)

// Built-in status slugs. The set is open: importing with an unknown status
// mints a new term rather than failing (see EnsureStatusTerm).
const (
	StatusWishlist = "wishlist"
	StatusBacklog  = "backlog"
	StatusPlaying  = "playing"
	StatusPlayed   = "played"
)

// DefaultStatus is applied when no status is supplied.
const DefaultStatus = StatusWishlist

// Game is one entry in the user's collection.
type Game struct {
	ID          string    `json:"id"`
	ExternalID  int64     `json:"external_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Status      string    `json:"status"`
	Rating      *float64  `json:"rating,omitempty"`
	CoverPath   string    `json:"cover_path,omitempty"`
	CoverAlt    string    `json:"cover_alt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing the collection.
type Query struct {
	Status string
	Limit  int
	Offset int
}

// Stats holds per-status entry counts.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// NormalizeStatus turns caller input into a status slug: lowercased,
// trimmed, spaces collapsed to hyphens. Empty input falls back to the
// default status.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultStatus
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return DefaultStatus
	}
	return slug
}

// StatusName derives the display name for a status slug, e.g.
// "backlogged" becomes "Backlogged".
func StatusName(slug string) string {
	if slug == "" {
		return ""
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}

// ValidateRating checks a rating value against the allowed range.
func ValidateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 10 {
		return ErrInvalidRating
	}
	return nil
}
