package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travelFront/internal/models"
)

const (
	DialectMySQL    = "mysql"
	DialectPostgres = "pgx"
)

// SQLStore keeps values in a kv_store table on MySQL or PostgreSQL.
type SQLStore struct {
	DB      *sql.DB
	Dialect string
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{DB: db, Dialect: dialect, now: time.Now}
}

// EnsureSchema creates the kv_store table when it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS kv_store (
		k VARCHAR(191) PRIMARY KEY,
		v LONGBLOB NOT NULL,
		expires_at BIGINT NULL
	)`
	if s.Dialect == DialectPostgres {
		query = strings.Replace(query, "LONGBLOB", "BYTEA", 1)
	}
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.rebind(`SELECT v, expires_at FROM kv_store WHERE k = ?`)
	var value []byte
	var expiresAt sql.NullInt64
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	if s.expired(expiresAt) {
		return nil, models.ErrNoRecord
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.now().Add(ttl).Unix(), Valid: true}
	}
	if _, err := s.DB.ExecContext(ctx, s.upsertQuery(), key, value, expiresAt); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.rebind(`DELETE FROM kv_store WHERE k = ?`)
	if _, err := s.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// Update locks the row for the duration of the transaction. A missing row
// is first inserted as an already expired placeholder so that concurrent
// first writers queue on the same lock.
func (s *SQLStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kv update %s: begin: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.insertAbsentQuery(), key, []byte{}); err != nil {
		return fmt.Errorf("kv update %s: reserve: %w", key, err)
	}

	var current []byte
	var expiresAt sql.NullInt64
	query := s.rebind(`SELECT v, expires_at FROM kv_store WHERE k = ? FOR UPDATE`)
	err = tx.QueryRowContext(ctx, query, key).Scan(&current, &expiresAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = nil
	case err != nil:
		return fmt.Errorf("kv update %s: select: %w", key, err)
	case s.expired(expiresAt):
		current = nil
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.upsertQuery(), key, next, sql.NullInt64{}); err != nil {
		return fmt.Errorf("kv update %s: write: %w", key, err)
	}
	return tx.Commit()
}

// DeleteExpired removes rows whose expiry has passed.
func (s *SQLStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := s.rebind(`DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= ?`)
	res, err := s.DB.ExecContext(ctx, query, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) expired(expiresAt sql.NullInt64) bool {
	return expiresAt.Valid && expiresAt.Int64 <= s.now().Unix()
}

func (s *SQLStore) upsertQuery() string {
	if s.Dialect == DialectPostgres {
		return `INSERT INTO kv_store (k, v, expires_at) VALUES ($1, $2, $3)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, expires_at = EXCLUDED.expires_at`
	}
	return `INSERT INTO kv_store (k, v, expires_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v), expires_at = VALUES(expires_at)`
}

func (s *SQLStore) insertAbsentQuery() string {
	if s.Dialect == DialectPostgres {
		return `INSERT INTO kv_store (k, v, expires_at) VALUES ($1, $2, 0) ON CONFLICT (k) DO NOTHING`
	}
	return `INSERT IGNORE INTO kv_store (k, v, expires_at) VALUES (?, ?, 0)`
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
