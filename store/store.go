package store

import (
	"context"
	"database/sql"
	_ "embed"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

//go:embed migrations.sql
var migrationSQL string

// PostgresStore is a Store backed by Postgres
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate creates the tables if they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, migrationSQL); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// SeedInventory inserts catalog rows, leaving existing ids untouched.
func (s *PostgresStore) SeedInventory(ctx context.Context, rows []InventoryRow) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// no-op after a successful commit
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO inventory (id, content) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, r.ID, r.Content); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) ListInventory(ctx context.Context) ([]InventoryRow, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, content FROM inventory ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []InventoryRow{}
	for rows.Next() {
		var r InventoryRow
		if err := rows.Scan(&r.ID, &r.Content); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListCart(ctx context.Context) ([]CartRow, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, content, amount FROM cart_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CartRow{}
	for rows.Next() {
		var c CartRow
		if err := rows.Scan(&c.ID, &c.Content, &c.Amount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddCartItem upserts a cart line; an existing id gets the amount added.
func (s *PostgresStore) AddCartItem(ctx context.Context, row CartRow) (CartRow, error) {
	if row.Amount <= 0 {
		return CartRow{}, errors.New("amount must be > 0")
	}
	var out CartRow
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO cart_items (id, content, amount) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET amount = cart_items.amount + EXCLUDED.amount RETURNING id, content, amount`,
		row.ID, row.Content, row.Amount,
	).Scan(&out.ID, &out.Content, &out.Amount)
	return out, err
}

func (s *PostgresStore) UpdateCartAmount(ctx context.Context, id int64, amount int) (CartRow, error) {
	var out CartRow
	err := s.DB.QueryRowContext(ctx,
		`UPDATE cart_items SET amount = $1 WHERE id = $2 RETURNING id, content, amount`,
		amount, id,
	).Scan(&out.ID, &out.Content, &out.Amount)
	if err == sql.ErrNoRows {
		return CartRow{}, ErrNotFound
	}
	return out, err
}

func (s *PostgresStore) DeleteCartItem(ctx context.Context, id int64) (CartRow, error) {
	var out CartRow
	err := s.DB.QueryRowContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 RETURNING id, content, amount`,
		id,
	).Scan(&out.ID, &out.Content, &out.Amount)
	if err == sql.ErrNoRows {
		return CartRow{}, ErrNotFound
	}
	return out, err
}
