package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, g *Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockRepo) FindByExternalID(ctx context.Context, externalID int64) (Game, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(Game), args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, id string) (Game, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Game), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, q Query) ([]Game, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Game), args.Int(1), args.Error(2)
}

func (m *mockRepo) SetStatus(ctx context.Context, id, statusSlug string) error {
	args := m.Called(ctx, id, statusSlug)
	return args.Error(0)
}

func (m *mockRepo) SetRating(ctx context.Context, id string, rating *float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *mockRepo) AttachCover(ctx context.Context, id string, cover Cover) error {
	args := m.Called(ctx, id, cover)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) (Game, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Game), args.Error(1)
}

func (m *mockRepo) BulkSetStatus(ctx context.Context, ids []string, statusSlug string) (int, error) {
	args := m.Called(ctx, ids, statusSlug)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) BulkDelete(ctx context.Context, ids []string) ([]Game, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Game), args.Error(1)
}

func (m *mockRepo) EnsureStatusTerm(ctx context.Context, slug, name string) error {
	args := m.Called(ctx, slug, name)
	return args.Error(0)
}

func (m *mockRepo) CountByStatus(ctx context.Context) (Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(Stats), args.Error(1)
}

type mockCoverStore struct {
	mock.Mock
}

func (m *mockCoverStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func TestService_SetStatus_EnsuresTerm(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, nil)

	repo.On("EnsureStatusTerm", mock.Anything, "backlogged", "Backlogged").Return(nil)
	repo.On("SetStatus", mock.Anything, "id-1", "backlogged").Return(nil)

	require.NoError(t, s.SetStatus(context.Background(), "id-1", "Backlogged"))
	repo.AssertExpectations(t)
}

func TestService_SetRating(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, nil)
	ctx := context.Background()

	t.Run("out of range", func(t *testing.T) {
		eleven := 11.0
		err := s.SetRating(ctx, "id-1", &eleven)
		assert.ErrorIs(t, err, ErrInvalidRating)
		repo.AssertNotCalled(t, "SetRating", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("clear", func(t *testing.T) {
		repo.On("SetRating", mock.Anything, "id-1", (*float64)(nil)).Return(nil)
		require.NoError(t, s.SetRating(ctx, "id-1", nil))
		repo.AssertExpectations(t)
	})
}

func TestService_Delete_ReleasesCover(t *testing.T) {
	repo := new(mockRepo)
	covers := new(mockCoverStore)
	s := NewService(repo, covers)

	repo.On("Delete", mock.Anything, "id-1").
		Return(Game{ID: "id-1", CoverPath: "/covers/game-cover-id-1.jpg"}, nil)
	covers.On("Remove", "/covers/game-cover-id-1.jpg").Return(nil)

	require.NoError(t, s.Delete(context.Background(), "id-1"))
	covers.AssertExpectations(t)
}

func TestService_Delete_NoCoverNoRelease(t *testing.T) {
	repo := new(mockRepo)
	covers := new(mockCoverStore)
	s := NewService(repo, covers)

	repo.On("Delete", mock.Anything, "id-2").Return(Game{ID: "id-2"}, nil)

	require.NoError(t, s.Delete(context.Background(), "id-2"))
	covers.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, new(mockCoverStore))

	repo.On("Delete", mock.Anything, "missing").Return(Game{}, ErrNotFound)

	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestService_BulkSetStatus(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, nil)

	repo.On("EnsureStatusTerm", mock.Anything, "played", "Played").Return(nil)
	repo.On("BulkSetStatus", mock.Anything, []string{"a", "b"}, "played").Return(2, nil)

	updated, err := s.BulkSetStatus(context.Background(), []string{"a", "b"}, "played")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
}

func TestService_BulkSetStatus_EmptyIDs(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, nil)

	updated, err := s.BulkSetStatus(context.Background(), nil, "played")
	require.NoError(t, err)
	assert.Zero(t, updated)
	repo.AssertNotCalled(t, "BulkSetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_BulkDelete_ReleasesCovers(t *testing.T) {
	repo := new(mockRepo)
	covers := new(mockCoverStore)
	s := NewService(repo, covers)

	repo.On("BulkDelete", mock.Anything, []string{"a", "b"}).Return([]Game{
		{ID: "a", CoverPath: "/covers/game-cover-a.jpg"},
		{ID: "b"},
	}, nil)
	covers.On("Remove", "/covers/game-cover-a.jpg").Return(nil)

	deleted, err := s.BulkDelete(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	covers.AssertExpectations(t)
}

func TestService_List_NormalizesStatusFilter(t *testing.T) {
	repo := new(mockRepo)
	s := NewService(repo, nil)

	repo.On("List", mock.Anything, Query{Status: "playing", Limit: 20}).Return([]Game{}, 0, nil)

	_, _, err := s.List(context.Background(), Query{Status: "  Playing ", Limit: 20})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
