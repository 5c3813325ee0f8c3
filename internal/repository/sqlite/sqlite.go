// Package sqlite implements repository.PresenceStore on a SQLite table that
// emulates one sorted set per network key.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"

	_ "modernc.org/sqlite"
)

// maxRemoveBatch bounds the number of bound parameters per DELETE
const maxRemoveBatch = 500

// Repository implements repository.PresenceStore using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.PresenceStore = (*Repository)(nil)

// New opens (or creates) the database at dbPath and migrates the schema
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if isMemory(dbPath) {
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS presence (
		network_key TEXT NOT NULL,
		member TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (network_key, member)
	);

	CREATE INDEX IF NOT EXISTS idx_presence_score ON presence(network_key, score, member);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Add inserts member or replaces its score, matching ZADD
func (r *Repository) Add(ctx context.Context, networkKey string, score int64, member string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO presence (network_key, member, score) VALUES (?, ?, ?)
		ON CONFLICT (network_key, member) DO UPDATE SET score = excluded.score
	`, networkKey, member, score)
	return repository.Unavailable("insert presence", err)
}

// Range returns all members of networkKey by ascending score, then member
func (r *Repository) Range(ctx context.Context, networkKey string) ([]domain.RawEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT member, CAST(score AS TEXT)
		FROM presence
		WHERE network_key = ?
		ORDER BY score, member
	`, networkKey)
	if err != nil {
		return nil, repository.Unavailable("query presence", err)
	}
	defer rows.Close()

	entries := make([]domain.RawEntry, 0)
	for rows.Next() {
		var (
			member string
			score  sql.NullString
		)
		if err := rows.Scan(&member, &score); err != nil {
			return nil, repository.Unavailable("scan presence", err)
		}
		entries = append(entries, domain.RawEntry{
			Member: member,
			Score:  nullToString(score),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, repository.Unavailable("iterate presence", err)
	}

	return entries, nil
}

// Remove deletes members inside one transaction
func (r *Repository) Remove(ctx context.Context, networkKey string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	for _, batch := range chunk(members, maxRemoveBatch) {
		query := fmt.Sprintf(
			`DELETE FROM presence WHERE network_key = ? AND member IN (%s)`,
			placeholders(len(batch)),
		)
		args := make([]any, 0, len(batch)+1)
		args = append(args, networkKey)
		for _, m := range batch {
			args = append(args, m)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return repository.Unavailable("delete presence", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return repository.Unavailable("commit transaction", err)
	}
	return nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return repository.Unavailable("ping", r.db.PingContext(ctx))
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func dsn(dbPath string) string {
	if isMemory(dbPath) {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
}
