package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Store struct{ DB Pool }

func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse dsn")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect")
	}
	return &Store{DB: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.DB != nil {
		s.DB.Close()
	}
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS upstream_snapshots (
		id             UUID PRIMARY KEY,
		domain         TEXT NOT NULL,
		endpoint       TEXT NOT NULL,
		query_key      TEXT NOT NULL DEFAULT '',
		variant        TEXT NOT NULL,
		matched_path   TEXT NOT NULL DEFAULT '',
		record_count   INTEGER NOT NULL DEFAULT 0,
		payload        TEXT NOT NULL,
		payload_sha256 TEXT NOT NULL,
		fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_domain ON upstream_snapshots(domain, fetched_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_sha ON upstream_snapshots(payload_sha256);`,
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, q := range migrations {
		if _, err := s.DB.Exec(ctx, q); err != nil {
			return eris.Wrap(err, "store: migrate")
		}
	}
	return nil
}

// Snapshot is one archived upstream response. Payload is kept verbatim,
// since plain-text responses are not valid JSON.
type Snapshot struct {
	ID          string
	Domain      string
	Endpoint    string
	QueryKey    string
	Variant     string
	MatchedPath string
	RecordCount int
	Payload     string
	PayloadSHA  string
	FetchedAt   time.Time
}

// WriteSnapshot inserts s and returns its generated id.
func (s *Store) WriteSnapshot(ctx context.Context, snap Snapshot) (string, error) {
	if s == nil || s.DB == nil {
		return "", eris.New("store: nil db")
	}
	id := uuid.NewString()
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}
	sum := sha256.Sum256([]byte(snap.Payload))
	_, err := s.DB.Exec(ctx, `
		INSERT INTO upstream_snapshots
			(id, domain, endpoint, query_key, variant, matched_path, record_count, payload, payload_sha256, fetched_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, snap.Domain, snap.Endpoint, snap.QueryKey, snap.Variant, snap.MatchedPath,
		snap.RecordCount, snap.Payload, hex.EncodeToString(sum[:]), snap.FetchedAt,
	)
	if err != nil {
		return "", eris.Wrapf(err, "store: write snapshot for %s", snap.Domain)
	}
	return id, nil
}

// RecentSnapshots returns the newest snapshots for domain, newest first.
func (s *Store) RecentSnapshots(ctx context.Context, domain string, limit int) ([]Snapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, domain, endpoint, query_key, variant, matched_path, record_count, payload, payload_sha256, fetched_at
		FROM upstream_snapshots
		WHERE domain = $1
		ORDER BY fetched_at DESC
		LIMIT $2`, domain, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: query snapshots")
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var sn Snapshot
		if err := rows.Scan(&sn.ID, &sn.Domain, &sn.Endpoint, &sn.QueryKey, &sn.Variant,
			&sn.MatchedPath, &sn.RecordCount, &sn.Payload, &sn.PayloadSHA, &sn.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan snapshot")
		}
		out = append(out, sn)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate snapshots")
}
