package storage

import (
	"context"
	"fmt"

	"finance-tracker/internal/finance"
	"finance-tracker/internal/models"
)

const budgetColumns = "id, user_id, category, amount, start_date, end_date"

// ListBudgets returns the user's budgets in insertion order. Rows whose
// window cannot be read are skipped.
func (db *DB) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			if isDateError(err) {
				db.logger.WarnContext(ctx, "Skipping budget with unreadable window",
					"user_id", userID, "error", err)
				continue
			}
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetBudget returns a single budget owned by userID. A row whose dates
// cannot be read is reported as not found, matching ListBudgets; it can
// still be overwritten or deleted.
func (db *DB) GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	b, err := scanBudget(row)
	if isDateError(err) {
		db.logger.WarnContext(ctx, "Hiding budget with unreadable date",
			"user_id", userID, "error", err)
		return nil, finance.ErrNotFound
	}
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// CreateBudget inserts b and sets its ID.
func (db *DB) CreateBudget(ctx context.Context, b *models.Budget) error {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO budgets (user_id, category, amount, start_date, end_date) VALUES (?, ?, ?, ?, ?)",
		b.UserID, b.Category, b.Amount, formatTime(b.Start), formatTime(b.End),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// UpdateBudget overwrites the stored fields of b.
func (db *DB) UpdateBudget(ctx context.Context, b *models.Budget) error {
	result, err := db.conn.ExecContext(ctx,
		"UPDATE budgets SET category = ?, amount = ?, start_date = ?, end_date = ? WHERE id = ? AND user_id = ?",
		b.Category, b.Amount, formatTime(b.Start), formatTime(b.End), b.ID, b.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteBudget removes a budget owned by userID.
func (db *DB) DeleteBudget(ctx context.Context, userID, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func scanBudget(s scanner) (*models.Budget, error) {
	var b models.Budget
	var start, end string
	if err := s.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &start, &end); err != nil {
		return nil, err
	}
	var err error
	if b.Start, err = parseTime(start); err != nil {
		return nil, dateError{table: "budget", id: b.ID, err: err}
	}
	if b.End, err = parseTime(end); err != nil {
		return nil, dateError{table: "budget", id: b.ID, err: err}
	}
	return &b, nil
}
