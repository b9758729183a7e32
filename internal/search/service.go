// Package search exposes remote catalog search to authenticated callers.
package search

import (
	"context"
	"errors"

	"gamelog/internal/platform/igdb"
)

// ErrEmptyQuery is returned when the caller supplies no search text.
var ErrEmptyQuery = errors.New("search query is required")

const (
	defaultLimit = 20
	maxLimit     = 50
)

// Catalog is the slice of the IGDB client the service needs.
type Catalog interface {
	SearchGames(ctx context.Context, query string, limit int) ([]igdb.Game, error)
	GetGameDetails(ctx context.Context, id int64) (*igdb.Game, error)
}

type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// Search validates the query, clamps the limit to [1,50] (default 20) and
// runs the catalog search.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]igdb.Game, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	return s.catalog.SearchGames(ctx, query, limit)
}

// Details looks up one catalog record by id; nil when unknown.
func (s *Service) Details(ctx context.Context, id int64) (*igdb.Game, error) {
	return s.catalog.GetGameDetails(ctx, id)
}
