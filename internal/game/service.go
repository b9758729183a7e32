package game

import (
	"context"
	"log"
)

// Service provides collection-related business logic.
type Service struct {
	repo   Repository
	covers CoverStore
}

func NewService(repo Repository, covers CoverStore) *Service {
	return &Service{repo: repo, covers: covers}
}

func (s *Service) List(ctx context.Context, q Query) ([]Game, int, error) {
	q.Status = normalizeFilter(q.Status)
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	return s.repo.Get(ctx, id)
}

// SetStatus moves an entry to a status term, minting the term first when it
// does not exist yet. Unknown statuses become new terms rather than errors,
// matching import behavior.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	slug := NormalizeStatus(status)
	if err := s.repo.EnsureStatusTerm(ctx, slug, StatusName(slug)); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, slug)
}

// SetRating stores a rating in [1,10]; a nil rating clears it.
func (s *Service) SetRating(ctx context.Context, id string, rating *float64) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	return s.repo.SetRating(ctx, id, rating)
}

// Delete removes an entry and releases its stored cover file. File removal
// is best-effort: the entry is already gone and a stray file is harmless.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.releaseCover(deleted)
	return nil
}

func (s *Service) BulkSetStatus(ctx context.Context, ids []string, status string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	slug := NormalizeStatus(status)
	if err := s.repo.EnsureStatusTerm(ctx, slug, StatusName(slug)); err != nil {
		return 0, err
	}
	return s.repo.BulkSetStatus(ctx, ids, slug)
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, g := range deleted {
		s.releaseCover(g)
	}
	return len(deleted), nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) releaseCover(g Game) {
	if g.CoverPath == "" || s.covers == nil {
		return
	}
	if err := s.covers.Remove(g.CoverPath); err != nil {
		log.Printf("failed to remove cover file: game_id=%s path=%s err=%v", g.ID, g.CoverPath, err)
	}
}

func normalizeFilter(status string) string {
	if status == "" {
		return ""
	}
	return NormalizeStatus(status)
}
