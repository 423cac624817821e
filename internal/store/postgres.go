package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/garygao333/chert-number-search/internal/model"
)

// Pool abstracts the pgx pool operations the store needs, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (used by tests).
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	phone_number TEXT NOT NULL UNIQUE,
	full_name    TEXT,
	first_name   TEXT,
	last_name    TEXT,
	role         TEXT,
	company      TEXT,
	headline     TEXT,
	location     TEXT,
	linkedin_url TEXT,
	source       TEXT NOT NULL,
	source_id    TEXT,
	raw_data     JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source);
CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresUpsert = `
INSERT INTO contacts (
	id, phone_number, full_name, first_name, last_name, role, company,
	headline, location, linkedin_url, source, source_id, raw_data, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
ON CONFLICT (phone_number) DO UPDATE SET
	full_name    = EXCLUDED.full_name,
	first_name   = EXCLUDED.first_name,
	last_name    = EXCLUDED.last_name,
	role         = EXCLUDED.role,
	company      = EXCLUDED.company,
	headline     = EXCLUDED.headline,
	location     = EXCLUDED.location,
	linkedin_url = EXCLUDED.linkedin_url,
	source       = EXCLUDED.source,
	source_id    = EXCLUDED.source_id,
	raw_data     = EXCLUDED.raw_data,
	updated_at   = now()
`

func (s *PostgresStore) UpsertContacts(ctx context.Context, contacts []model.ContactRecord) (int, error) {
	written := 0
	for _, c := range contacts {
		if c.PhoneNumber == "" {
			continue
		}

		rawJSON, err := json.Marshal(c.RawData)
		if err != nil {
			return written, eris.Wrap(err, "postgres: marshal raw_data")
		}

		if _, err := s.pool.Exec(ctx, postgresUpsert,
			uuid.New().String(), c.PhoneNumber, c.FullName, c.FirstName, c.LastName,
			c.Role, c.Company, c.Headline, c.Location, c.LinkedinURL,
			c.Source, c.SourceID, rawJSON,
		); err != nil {
			return written, eris.Wrapf(err, "postgres: upsert contact %s", c.PhoneNumber)
		}
		written++
	}
	return written, nil
}

const postgresList = `
SELECT id, phone_number, full_name, first_name, last_name, role, company,
       headline, location, linkedin_url, source, source_id, raw_data,
       created_at, updated_at
FROM contacts
WHERE source IN ($1, $2)
ORDER BY created_at DESC
`

func (s *PostgresStore) ListContacts(ctx context.Context) ([]model.ContactRecord, error) {
	rows, err := s.pool.Query(ctx, postgresList,
		string(model.SourceForager), string(model.SourceAviato))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var contacts []model.ContactRecord
	for rows.Next() {
		var (
			c       model.ContactRecord
			rawJSON []byte
		)
		if err := rows.Scan(
			&c.ID, &c.PhoneNumber, &c.FullName, &c.FirstName, &c.LastName,
			&c.Role, &c.Company, &c.Headline, &c.Location, &c.LinkedinURL,
			&c.Source, &c.SourceID, &rawJSON, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		if len(rawJSON) > 0 && string(rawJSON) != "null" {
			if err := json.Unmarshal(rawJSON, &c.RawData); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal raw_data")
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: iterate contacts")
}
