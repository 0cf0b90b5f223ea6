package receipt

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store persists labelled receipts in SQLite. Prior receipts feed the
// address selector's candidate list and the per-question suggestion
// history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the receipt database at dbPath.
// ":memory:" gives an ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout must come first so the remaining pragmas wait on
	// locks instead of failing.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on
// "database is locked" errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes a receipt and its transactions in one database
// transaction.
func (s *Store) Save(ctx context.Context, r *Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var addr Address
	if r.Address != nil {
		addr = *r.Address
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO receipts
		(id, receipt_date, category, shop_name, street, house_number, zipcode, city, country, subtotal, total_tax, labelled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Date,
		r.Category,
		r.ShopName(),
		addr.Street,
		addr.HouseNumber,
		addr.Zipcode,
		addr.City,
		addr.Country,
		r.Subtotal,
		r.TotalTax,
		r.LabelledAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	for _, t := range r.Transactions {
		_, err = tx.ExecContext(ctx, `INSERT INTO transactions
			(receipt_id, account, currency, amount_paid, change_returned)
			VALUES (?, ?, ?, ?, ?)`,
			r.ID, t.Account, t.Currency, t.AmountPaid, t.ChangeReturned,
		)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	return tx.Commit()
}

// ShopVisits aggregates prior receipts into per-shop, per-category
// visit counts for the address selector.
func (s *Store) ShopVisits(ctx context.Context) ([]ShopVisit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT shop_name, category, COUNT(*)
		FROM receipts
		WHERE shop_name != ''
		GROUP BY shop_name, category
		ORDER BY COUNT(*) DESC, shop_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query shop visits: %w", err)
	}
	defer rows.Close()

	var visits []ShopVisit
	for rows.Next() {
		var v ShopVisit
		if err := rows.Scan(&v.Shop, &v.Category, &v.Count); err != nil {
			return nil, fmt.Errorf("scan shop visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Categories returns previously used categories ordered by frequency,
// for seeding the category question's suggestion history.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category
		FROM receipts
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Recent returns the latest labelled receipts, newest first, with
// their transactions attached.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, receipt_date, category, shop_name, street, house_number, zipcode, city, country, subtotal, total_tax, labelled_at
		FROM receipts
		ORDER BY labelled_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*Receipt
	for rows.Next() {
		r := &Receipt{}
		var addr Address
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Category,
			&addr.ShopName, &addr.Street, &addr.HouseNumber,
			&addr.Zipcode, &addr.City, &addr.Country,
			&r.Subtotal, &r.TotalTax, &r.LabelledAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		r.Shop = addr.ShopName
		if addr.Street != "" {
			r.Address = &addr
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range receipts {
		if err := s.loadTransactions(ctx, r); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (s *Store) loadTransactions(ctx context.Context, r *Receipt) error {
	rows, err := s.db.QueryContext(ctx, `SELECT account, currency, amount_paid, change_returned
		FROM transactions WHERE receipt_id = ? ORDER BY id`, r.ID)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.Account, &t.Currency, &t.AmountPaid, &t.ChangeReturned); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		r.Transactions = append(r.Transactions, t)
	}
	return rows.Err()
}

// Count returns the number of labelled receipts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count receipts: %w", err)
	}
	return n, nil
}
