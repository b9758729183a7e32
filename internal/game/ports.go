package game

import "context"

// Cover is a stored cover image reference attached to an entry.
type Cover struct {
	Path string
	Alt  string
}

// Repository defines the contract for collection storage.
//
// The games table carries a UNIQUE index on external_id; Create reports a
// violation as ErrDuplicate, which is the authoritative duplicate signal
// even when two imports race past FindByExternalID.
type Repository interface {
	Create(ctx context.Context, g *Game) error
	FindByExternalID(ctx context.Context, externalID int64) (Game, error)
	Get(ctx context.Context, id string) (Game, error)
	List(ctx context.Context, q Query) ([]Game, int, error)
	SetStatus(ctx context.Context, id, statusSlug string) error
	SetRating(ctx context.Context, id string, rating *float64) error
	AttachCover(ctx context.Context, id string, cover Cover) error
	Delete(ctx context.Context, id string) (Game, error)
	BulkSetStatus(ctx context.Context, ids []string, statusSlug string) (int, error)
	BulkDelete(ctx context.Context, ids []string) ([]Game, error)
	EnsureStatusTerm(ctx context.Context, slug, name string) error
	CountByStatus(ctx context.Context) (Stats, error)
}

// CoverStore releases stored cover files when entries are removed.
type CoverStore interface {
	Remove(path string) error
}
