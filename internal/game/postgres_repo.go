package game

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const gameColumns = `id, external_id, title, COALESCE(summary, ''), COALESCE(release_date, ''),
	platforms, genres, status_slug, rating, COALESCE(cover_path, ''), COALESCE(cover_alt, ''),
	created_at, updated_at`

func scanGame(row pgx.Row) (Game, error) {
	var g Game
	err := row.Scan(
		&g.ID, &g.ExternalID, &g.Title, &g.Summary, &g.ReleaseDate,
		&g.Platforms, &g.Genres, &g.Status, &g.Rating, &g.CoverPath, &g.CoverAlt,
		&g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func (r *PostgresRepo) Create(ctx context.Context, g *Game) error {
	const insertSQL = `
		INSERT INTO games (external_id, title, summary, release_date, platforms, genres, status_slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertSQL,
		g.ExternalID, g.Title, g.Summary, g.ReleaseDate, g.Platforms, g.Genres, g.Status,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) FindByExternalID(ctx context.Context, externalID int64) (Game, error) {
	const querySQL = `SELECT ` + gameColumns + ` FROM games WHERE external_id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	g, err := scanGame(r.db.QueryRow(timeoutCtx, querySQL, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Game, error) {
	const querySQL = `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	g, err := scanGame(r.db.QueryRow(timeoutCtx, querySQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Game, int, error) {
	const countSQL = `SELECT COUNT(*) FROM games WHERE ($1 = '' OR status_slug = $1)`
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, q.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
		SELECT ` + gameColumns + `
		FROM games
		WHERE ($1 = '' OR status_slug = $1)
		ORDER BY title ASC
		LIMIT $2 OFFSET $3
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, q.Status, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, 0, err
		}
		games = append(games, g)
	}
	return games, total, rows.Err()
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id, statusSlug string) error {
	const updateSQL = `UPDATE games SET status_slug = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, updateSQL, id, statusSlug)
}

func (r *PostgresRepo) SetRating(ctx context.Context, id string, rating *float64) error {
	const updateSQL = `UPDATE games SET rating = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, updateSQL, id, rating)
}

func (r *PostgresRepo) AttachCover(ctx context.Context, id string, cover Cover) error {
	const updateSQL = `UPDATE games SET cover_path = $2, cover_alt = $3, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, updateSQL, id, cover.Path, cover.Alt)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) (Game, error) {
	const deleteSQL = `DELETE FROM games WHERE id = $1 RETURNING ` + gameColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	g, err := scanGame(r.db.QueryRow(timeoutCtx, deleteSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

func (r *PostgresRepo) BulkSetStatus(ctx context.Context, ids []string, statusSlug string) (int, error) {
	const updateSQL = `UPDATE games SET status_slug = $2, updated_at = NOW() WHERE id = ANY($1)`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, updateSQL, ids, statusSlug)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresRepo) BulkDelete(ctx context.Context, ids []string) ([]Game, error) {
	const deleteSQL = `DELETE FROM games WHERE id = ANY($1) RETURNING ` + gameColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, deleteSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deleted []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		deleted = append(deleted, g)
	}
	return deleted, rows.Err()
}

func (r *PostgresRepo) EnsureStatusTerm(ctx context.Context, slug, name string) error {
	const upsertSQL = `
		INSERT INTO status_terms (slug, name)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, upsertSQL, slug, name)
	return err
}

func (r *PostgresRepo) CountByStatus(ctx context.Context) (Stats, error) {
	const statsSQL = `SELECT status_slug, COUNT(*) FROM games GROUP BY status_slug`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, statsSQL)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	stats := Stats{ByStatus: map[string]int{
		StatusWishlist: 0,
		StatusBacklog:  0,
		StatusPlaying:  0,
		StatusPlayed:   0,
	}}
	for rows.Next() {
		var slug string
		var count int
		if err := rows.Scan(&slug, &count); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[slug] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func (r *PostgresRepo) execOne(ctx context.Context, sql string, args ...any) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
