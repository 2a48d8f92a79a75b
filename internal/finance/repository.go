package finance

import (
	"context"

	"finance-tracker/internal/models"
)

// TransactionRepository stores transactions scoped by owner.
// Get, Update and Delete return ErrNotFound when the id does not belong to
// userID.
type TransactionRepository interface {
	ListTransactions(ctx context.Context, userID int64, r models.DateRange) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// BudgetRepository stores budgets scoped by owner.
type BudgetRepository interface {
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error)
	CreateBudget(ctx context.Context, b *models.Budget) error
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error
}

// Repository is everything the service needs from a store.
type Repository interface {
	TransactionRepository
	BudgetRepository
}

// RateProvider returns how many units of `to` one unit of `from` is worth.
type RateProvider interface {
	LookupRate(ctx context.Context, from, to string) (float64, error)
}
