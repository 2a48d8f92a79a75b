package finance

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// BudgetInput is what a user submits to set or edit a budget.
type BudgetInput struct {
	Category string
	Amount   float64
	Start    time.Time
	End      time.Time
}

func buildBudget(in BudgetInput) (*models.Budget, error) {
	category, err := normalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if err := validateAmount("amount", in.Amount, true); err != nil {
		return nil, err
	}
	if in.Start.IsZero() {
		return nil, invalid("start_date", "is required")
	}
	if in.End.IsZero() {
		return nil, invalid("end_date", "is required")
	}
	if in.Start.After(in.End) {
		return nil, invalid("end_date", "must not be before start_date")
	}
	return &models.Budget{
		Category: category,
		Amount:   in.Amount,
		Start:    in.Start.UTC(),
		End:      in.End.UTC(),
	}, nil
}

// SetBudget creates a budget for userID.
func (s *Service) SetBudget(ctx context.Context, userID int64, in BudgetInput) (*models.Budget, error) {
	b, err := buildBudget(in)
	if err != nil {
		return nil, err
	}
	b.UserID = userID

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget set",
		"budget_id", b.ID,
		"user_id", userID,
		"category", b.Category,
		"amount", b.Amount)
	return b, nil
}

// UpdateBudget replaces the fields of an existing budget.
func (s *Service) UpdateBudget(ctx context.Context, userID, id int64, in BudgetInput) (*models.Budget, error) {
	b, err := buildBudget(in)
	if err != nil {
		return nil, err
	}
	b.ID, b.UserID = id, userID

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// DeleteBudget removes a budget owned by userID.
func (s *Service) DeleteBudget(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// GetBudget returns a budget owned by userID.
func (s *Service) GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error) {
	return s.repo.GetBudget(ctx, userID, id)
}

// ListBudgets returns the user's budgets in repository order.
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}
