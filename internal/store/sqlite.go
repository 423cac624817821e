package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/garygao333/chert-number-search/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
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
	raw_data     TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_contacts_source ON contacts(source);
CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsert = `
INSERT INTO contacts (
	id, phone_number, full_name, first_name, last_name, role, company,
	headline, location, linkedin_url, source, source_id, raw_data,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (phone_number) DO UPDATE SET
	full_name    = excluded.full_name,
	first_name   = excluded.first_name,
	last_name    = excluded.last_name,
	role         = excluded.role,
	company      = excluded.company,
	headline     = excluded.headline,
	location     = excluded.location,
	linkedin_url = excluded.linkedin_url,
	source       = excluded.source,
	source_id    = excluded.source_id,
	raw_data     = excluded.raw_data,
	updated_at   = excluded.updated_at
`

func (s *SQLiteStore) UpsertContacts(ctx context.Context, contacts []model.ContactRecord) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	written := 0
	for _, c := range contacts {
		if c.PhoneNumber == "" {
			continue
		}

		rawJSON, err := json.Marshal(c.RawData)
		if err != nil {
			return written, eris.Wrap(err, "sqlite: marshal raw_data")
		}

		if _, err := tx.ExecContext(ctx, sqliteUpsert,
			uuid.New().String(), c.PhoneNumber, c.FullName, c.FirstName, c.LastName,
			c.Role, c.Company, c.Headline, c.Location, c.LinkedinURL,
			c.Source, c.SourceID, string(rawJSON), now, now,
		); err != nil {
			return written, eris.Wrapf(err, "sqlite: upsert contact %s", c.PhoneNumber)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return written, nil
}

const sqliteList = `
SELECT id, phone_number, full_name, first_name, last_name, role, company,
       headline, location, linkedin_url, source, source_id, raw_data,
       created_at, updated_at
FROM contacts
WHERE source IN (?, ?)
ORDER BY created_at DESC
`

func (s *SQLiteStore) ListContacts(ctx context.Context) ([]model.ContactRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteList,
		string(model.SourceForager), string(model.SourceAviato))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close()

	var contacts []model.ContactRecord
	for rows.Next() {
		var (
			c       model.ContactRecord
			rawJSON sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.PhoneNumber, &c.FullName, &c.FirstName, &c.LastName,
			&c.Role, &c.Company, &c.Headline, &c.Location, &c.LinkedinURL,
			&c.Source, &c.SourceID, &rawJSON, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		if rawJSON.Valid && rawJSON.String != "" && rawJSON.String != "null" {
			if err := json.Unmarshal([]byte(rawJSON.String), &c.RawData); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal raw_data")
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: iterate contacts")
}
