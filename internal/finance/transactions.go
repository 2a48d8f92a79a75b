package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
)

// TransactionInput is what a user submits to record or edit a transaction.
// Amount is in Currency; the service converts it before storing.
type TransactionInput struct {
	Kind     models.Kind
	Amount   float64
	Category string
	Currency string
	Date     time.Time
}

func (s *Service) buildTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	if err := validateKind(in.Kind); err != nil {
		return nil, err
	}
	if err := validateAmount("amount", in.Amount, false); err != nil {
		return nil, err
	}
	category, err := normalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}
	currency, err := NormalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	amount, err := s.normalizer.Normalize(ctx, in.Amount, currency)
	if err != nil {
		return nil, err
	}
	if err := validateAmount("amount", amount, false); err != nil {
		return nil, invalid("amount", "too large after conversion")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	return &models.Transaction{
		Kind:     in.Kind,
		Amount:   amount,
		Category: category,
		Currency: currency,
		Date:     date.UTC(),
	}, nil
}

// RecordTransaction validates in, converts its amount to the base currency
// and stores it for userID. Nothing is stored when the rate lookup fails.
func (s *Service) RecordTransaction(ctx context.Context, userID int64, in TransactionInput) (*models.Transaction, error) {
	t, err := s.buildTransaction(ctx, in)
	if err != nil {
		return nil, err
	}
	t.UserID = userID

	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction recorded",
		"transaction_id", t.ID,
		"user_id", userID,
		"type", string(t.Kind),
		"amount", t.Amount,
		"currency", t.Currency,
		"category", t.Category)
	s.publish(ctx, events.NewTransactionEvent(events.TransactionRecorded, t))

	return t, nil
}

// UpdateTransaction replaces the fields of an existing transaction. The new
// amount is converted the same way as on creation. Unlike recording, the date
// must be given.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id int64, in TransactionInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		return nil, invalid("date", "is required")
	}

	t, err := s.buildTransaction(ctx, in)
	if err != nil {
		return nil, err
	}
	t.ID, t.UserID = id, userID

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, events.NewTransactionEvent(events.TransactionUpdated, t))

	return t, nil
}

// DeleteTransaction removes a transaction owned by userID. Rows that can no
// longer be read are still deleted; their event carries only the ids.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id int64) error {
	t, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		t = &models.Transaction{ID: id, UserID: userID}
	}
	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, events.NewTransactionEvent(events.TransactionDeleted, t))
	return nil
}

// GetTransaction returns a transaction owned by userID.
func (s *Service) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

// ListTransactions returns the user's transactions in r, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID int64, r models.DateRange) ([]models.Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	return txs, nil
}
