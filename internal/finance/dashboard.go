package finance

import (
	"context"
	"time"

	"finance-tracker/internal/models"
)

// Dashboard is everything the overview page shows.
type Dashboard struct {
	BaseCurrency     string               `json:"base_currency"`
	Transactions     []models.Transaction `json:"transactions"`
	Budgets          []models.Budget      `json:"budgets"`
	Alerts           []Alert              `json:"notifications"`
	SpendingPatterns TimeSeries           `json:"spending_patterns"`
}

// Dashboard assembles the overview for userID with alerts evaluated at now.
func (s *Service) Dashboard(ctx context.Context, userID int64, now time.Time) (*Dashboard, error) {
	txs, err := s.ListTransactions(ctx, userID, models.DateRange{})
	if err != nil {
		return nil, err
	}
	budgets, err := s.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	byMonth, err := s.SpendingByMonth(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.BudgetAlerts(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []models.Transaction{}
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return &Dashboard{
		BaseCurrency:     s.BaseCurrency(),
		Transactions:     txs,
		Budgets:          budgets,
		Alerts:           alerts,
		SpendingPatterns: NewTimeSeries(byMonth),
	}, nil
}
