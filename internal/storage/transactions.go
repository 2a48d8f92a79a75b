package storage

import (
	"context"
	"fmt"

	"finance-tracker/internal/finance"
	"finance-tracker/internal/models"
)

const transactionColumns = "id, user_id, type, amount, category, currency, date"

// ListTransactions returns the user's transactions that fall in r, in
// insertion order. Rows whose date cannot be read are skipped.
func (db *DB) ListTransactions(ctx context.Context, userID int64, r models.DateRange) ([]models.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			if isDateError(err) {
				db.logger.WarnContext(ctx, "Skipping transaction with unreadable date",
					"user_id", userID, "error", err)
				continue
			}
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if r.Contains(t.Date) {
			out = append(out, *t)
		}
	}
	return out, rows.Err()
}

// GetTransaction returns a single transaction owned by userID. A row whose dates
// cannot be read is reported as not found, matching ListTransactions; it can
// still be overwritten or deleted.
func (db *DB) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	t, err := scanTransaction(row)
	if isDateError(err) {
		db.logger.WarnContext(ctx, "Hiding transaction with unreadable date",
			"user_id", userID, "error", err)
		return nil, finance.ErrNotFound
	}
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// CreateTransaction inserts t and sets its ID.
func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO transactions (user_id, type, amount, category, currency, date) VALUES (?, ?, ?, ?, ?, ?)",
		t.UserID, string(t.Kind), t.Amount, t.Category, t.Currency, formatTime(t.Date),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// UpdateTransaction overwrites the stored fields of t.
func (db *DB) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	result, err := db.conn.ExecContext(ctx,
		"UPDATE transactions SET type = ?, amount = ?, category = ?, currency = ?, date = ? WHERE id = ? AND user_id = ?",
		string(t.Kind), t.Amount, t.Category, t.Currency, formatTime(t.Date), t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteTransaction removes a transaction owned by userID.
func (db *DB) DeleteTransaction(ctx context.Context, userID, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// scanTransaction returns a dateError when the date column cannot be parsed.
func scanTransaction(s scanner) (*models.Transaction, error) {
	var t models.Transaction
	var kind, date string
	if err := s.Scan(&t.ID, &t.UserID, &kind, &t.Amount, &t.Category, &t.Currency, &date); err != nil {
		return nil, err
	}
	parsed, err := parseTime(date)
	if err != nil {
		return nil, dateError{table: "transaction", id: t.ID, err: err}
	}
	t.Kind = models.Kind(kind)
	t.Date = parsed
	return &t, nil
}
