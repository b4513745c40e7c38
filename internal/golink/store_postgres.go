package golink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/golinkhq/golinks/internal/errx"
)

// DefaultOpTimeout bounds pool acquisition plus statement execution
// for a single store operation. A saturated pool surfaces as
// Unavailable instead of queuing forever.
const DefaultOpTimeout = 5 * time.Second

// PostgresStore is a durable Store backed by a pgx connection pool.
// short_link is the table's primary key, so the uniqueness invariant
// is enforced by the storage layer itself. Each operation executes as
// a single statement in its own transaction and holds one pooled
// connection for its duration only.
type PostgresStore struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

// PostgresStoreConfig holds optional settings for PostgresStore.
type PostgresStoreConfig struct {
	OpTimeout time.Duration // per-operation deadline (default: DefaultOpTimeout)
}

// NewPostgresStore creates a PostgresStore on top of an existing pool.
// The caller owns the pool's lifecycle.
func NewPostgresStore(pool *pgxpool.Pool, cfg *PostgresStoreConfig) *PostgresStore {
	if cfg == nil {
		cfg = &PostgresStoreConfig{}
	}

	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}

	return &PostgresStore{
		pool:      pool,
		opTimeout: timeout,
	}
}

// EnsureSchema creates the golinks table if it does not exist. This is
// the only migration in scope.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const op = "golink.PostgresStore.EnsureSchema"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS golinks (
			id         TEXT NOT NULL,
			short_link TEXT PRIMARY KEY,
			url        TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}

func mapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (s *PostgresStore) Create(ctx context.Context, link Link) (Link, error) {
	const op = "golink.PostgresStore.Create"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	// RETURNING echoes the row as stored, so the caller sees the
	// TIMESTAMPTZ-resolution created_at rather than its own input.
	row := s.pool.QueryRow(ctx,
		`INSERT INTO golinks (id, short_link, url, created_at) VALUES ($1, $2, $3, $4)
		 RETURNING id, short_link, url, created_at`,
		link.ID.String(), link.ShortLink, link.URL, link.CreatedAt,
	)

	created, err := scanLink(row)
	if err != nil {
		return Link{}, mapStoreError(op, err)
	}
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, shortLink string) (Link, error) {
	const op = "golink.PostgresStore.Get"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT id, short_link, url, created_at FROM golinks WHERE short_link = $1`,
		shortLink,
	)

	link, err := scanLink(row)
	if err != nil {
		return Link{}, mapStoreError(op, err)
	}
	return link, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Link, error) {
	const op = "golink.PostgresStore.List"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	// created_at approximates insertion order; short_link breaks
	// sub-second timestamp ties deterministically.
	rows, err := s.pool.Query(ctx,
		`SELECT id, short_link, url, created_at FROM golinks
		 ORDER BY created_at ASC, short_link ASC`,
	)
	if err != nil {
		return nil, mapStoreError(op, err)
	}
	defer rows.Close()

	links := make([]Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, mapStoreError(op, err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(op, err)
	}
	return links, nil
}

func (s *PostgresStore) Update(ctx context.Context, shortLink, url string) (Link, error) {
	const op = "golink.PostgresStore.Update"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`UPDATE golinks SET url = $1 WHERE short_link = $2
		 RETURNING id, short_link, url, created_at`,
		url, shortLink,
	)

	link, err := scanLink(row)
	if err != nil {
		return Link{}, mapStoreError(op, err)
	}
	return link, nil
}

func (s *PostgresStore) Delete(ctx context.Context, shortLink string) error {
	const op = "golink.PostgresStore.Delete"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM golinks WHERE short_link = $1`,
		shortLink,
	)
	if err != nil {
		return mapStoreError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound,
			fmt.Errorf("short link %q not found", shortLink))
	}
	return nil
}

func scanLink(row pgx.Row) (Link, error) {
	var (
		link  Link
		rawID string
	)
	if err := row.Scan(&rawID, &link.ShortLink, &link.URL, &link.CreatedAt); err != nil {
		return Link{}, err
	}

	id, err := parseLinkID(rawID)
	if err != nil {
		return Link{}, err
	}
	link.ID = id
	return link, nil
}
