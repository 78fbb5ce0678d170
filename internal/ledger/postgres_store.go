package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists snapshots in a single accounts table. Each save is a
// full rewrite inside one transaction, matching the snapshot contract of the
// file store.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed snapshot store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// LoadAll reads every persisted account.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `SELECT username, password, gbp, usd, eur, yen FROM accounts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Username, &r.Password, &r.GBP, &r.USD, &r.EUR, &r.YEN); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	return records, nil
}

// SaveAll replaces the accounts table with the given snapshot.
func (s *PostgresStore) SaveAll(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for _, r := range records {
		if _, err := tx.Exec(ctx, `INSERT INTO accounts (username, password, gbp, usd, eur, yen)
            VALUES ($1, $2, $3, $4, $5, $6)`, r.Username, r.Password, r.GBP, r.USD, r.EUR, r.YEN); err != nil {
			return fmt.Errorf("insert account %s: %w", r.Username, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
