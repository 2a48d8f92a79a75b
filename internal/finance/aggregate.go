package finance

import (
	"context"
	"fmt"
	"math"
	"sort"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// monthLayout formats the spending-pattern bucket keys.
const monthLayout = "2006-01"

// SpendingByCategory returns net spending per category for userID, limited
// to the bounds of r that are set. Categories with no transactions in range
// are absent from the result.
func (s *Service) SpendingByCategory(ctx context.Context, userID int64, r models.DateRange) (map[string]float64, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.sumBy(ctx, txs, func(t models.Transaction) string { return t.Category }), nil
}

// SpendingByMonth returns net spending per UTC calendar month ("YYYY-MM")
// over all of the user's transactions.
func (s *Service) SpendingByMonth(ctx context.Context, userID int64) (map[string]float64, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, models.DateRange{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return s.sumBy(ctx, txs, func(t models.Transaction) string {
		return t.Date.UTC().Format(monthLayout)
	}), nil
}

// sumBy adds up signed amounts per key. Rows with an unknown kind or a
// non-finite amount are skipped and logged rather than aborting the whole
// aggregation.
func (s *Service) sumBy(ctx context.Context, txs []models.Transaction, key func(models.Transaction) string) map[string]float64 {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !t.Kind.Valid() {
			s.logger.WarnContext(ctx, "Skipping transaction with unknown kind",
				"transaction_id", t.ID,
				"kind", string(t.Kind))
			continue
		}
		if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
			s.logger.WarnContext(ctx, "Skipping transaction with non-finite amount",
				"transaction_id", t.ID)
			continue
		}
		k := key(t)
		totals[k] = totals[k].Add(decimal.NewFromFloat(t.Signed()))
	}

	out := make(map[string]float64, len(totals))
	for k, v := range totals {
		out[k] = v.InexactFloat64()
	}
	return out
}

// TimeSeries is the chart payload for spending over time. Dates and Amounts
// are index aligned.
type TimeSeries struct {
	Dates   []string  `json:"dates"`
	Amounts []float64 `json:"amounts"`
}

// NewTimeSeries orders monthly totals chronologically.
func NewTimeSeries(byMonth map[string]float64) TimeSeries {
	ts := TimeSeries{Dates: make([]string, 0, len(byMonth)), Amounts: make([]float64, 0, len(byMonth))}
	for k := range byMonth {
		ts.Dates = append(ts.Dates, k)
	}
	// "YYYY-MM" sorts chronologically as a string.
	sort.Strings(ts.Dates)
	for _, k := range ts.Dates {
		ts.Amounts = append(ts.Amounts, byMonth[k])
	}
	return ts
}

// CategoryBreakdown is the chart payload for spending per category.
// Categories and Amounts are index aligned.
type CategoryBreakdown struct {
	Categories []string  `json:"categories"`
	Amounts    []float64 `json:"amounts"`
}

// NewCategoryBreakdown flattens category totals, ordered by category name so
// the payload is stable between calls.
func NewCategoryBreakdown(byCategory map[string]float64) CategoryBreakdown {
	cb := CategoryBreakdown{
		Categories: make([]string, 0, len(byCategory)),
		Amounts:    make([]float64, 0, len(byCategory)),
	}
	for k := range byCategory {
		cb.Categories = append(cb.Categories, k)
	}
	sort.Strings(cb.Categories)
	for _, k := range cb.Categories {
		cb.Amounts = append(cb.Amounts, byCategory[k])
	}
	return cb
}
