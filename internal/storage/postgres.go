package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parkapi/models"
	"parkapi/pkg/lastvalues"
)

const lotCacheTable = `
	CREATE TABLE IF NOT EXISTS lot_cache (
		city       TEXT PRIMARY KEY,
		document   JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// ConnectPostgres opens a pool and makes sure the lot_cache table exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	if _, err := pool.Exec(ctx, lotCacheTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("Connected to PostgreSQL, lot_cache ready")
	return pool, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource serves lookups from one JSONB document per city. A NULL
// document reads like a JSON null one.
type PostgresSource struct {
	db querier
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (p *PostgresSource) Load(ctx context.Context, city string) (*models.Snapshot, error) {
	var doc *string
	err := p.db.QueryRow(ctx, `
		SELECT document::text
		FROM lot_cache
		WHERE city = $1
	`, city).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lastvalues.ErrNotFound
		}
		return nil, &lastvalues.IOError{Path: "lot_cache/" + city, Err: err}
	}
	if doc == nil {
		return nil, nil
	}

	snap, err := models.ParseSnapshot([]byte(*doc))
	if err != nil {
		return nil, &lastvalues.DataFormatError{City: city, Err: err}
	}
	return snap, nil
}
