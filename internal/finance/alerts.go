package finance

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Alert reports a budget whose category spending went over its limit.
type Alert struct {
	BudgetID int64   `json:"budget_id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
	Excess   float64 `json:"excess"`
	Message  string  `json:"message"`
}

// BudgetAlerts evaluates every budget of userID whose window contains asOf
// and returns an alert for each one where spending strictly exceeds the
// limit. Alerts follow the order in which the repository returned budgets.
//
// Budget bounds are converted to UTC for the comparison only; the stored
// records are left untouched.
func (s *Service) BudgetAlerts(ctx context.Context, userID int64, asOf time.Time) ([]Alert, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	asOf = asOf.UTC()
	alerts := make([]Alert, 0)
	for _, b := range budgets {
		b.Start, b.End = b.Start.UTC(), b.End.UTC()
		if !b.Active(asOf) {
			continue
		}

		spending, err := s.SpendingByCategory(ctx, userID, models.DateRange{Start: b.Start, End: b.End})
		if err != nil {
			return nil, fmt.Errorf("spending for budget %d: %w", b.ID, err)
		}

		spent := decimal.NewFromFloat(spending[b.Category])
		limit := decimal.NewFromFloat(b.Amount)
		if !spent.GreaterThan(limit) {
			continue
		}

		excess := spent.Sub(limit).Round(2)
		alerts = append(alerts, Alert{
			BudgetID: b.ID,
			Category: b.Category,
			Limit:    b.Amount,
			Spent:    spent.InexactFloat64(),
			Excess:   excess.InexactFloat64(),
			Message:  fmt.Sprintf("You have exceeded your budget for %s by %s", b.Category, excess.StringFixed(2)),
		})
	}
	return alerts, nil
}
