// internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"finance-tracker/internal/domain"
)

type UserStorage interface {
	CreateUser(ctx context.Context, email, passwordHash string, fullName *string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	LinkTelegramChat(ctx context.Context, userID, chatID int64) error
	UnlinkTelegramChat(ctx context.Context, chatID int64) error
	FindUserByTelegramChat(ctx context.Context, chatID int64) (*domain.User, error)
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, name string, color *string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
}

type TransactionStorage interface {
	CreateTransaction(ctx context.Context, userID int64, in domain.TransactionInput) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, in domain.TransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

type BudgetStorage interface {
	CreateBudget(ctx context.Context, userID int64, in domain.BudgetInput) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]domain.Budget, error)
	GetBudget(ctx context.Context, userID, id int64) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, userID, id int64, in domain.BudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error
}

// AnalyticsStorage — агрегаты, считаемые по текущему снимку данных.
type AnalyticsStorage interface {
	// SumAmountByType sums amounts of the given type, optionally only
	// rows with timestamp >= since.
	SumAmountByType(ctx context.Context, userID int64, txType domain.TransactionType, since *time.Time) (float64, error)
	// CategorySpending groups expense amounts by category within the
	// optional inclusive [start, end] window. Categories with no
	// matching rows are omitted.
	CategorySpending(ctx context.Context, userID int64, start, end *time.Time) ([]domain.CategorySpending, error)
	// SumExpenses sums expense amounts with timestamp >= start
	// (and <= end if set), optionally filtered to one category.
	SumExpenses(ctx context.Context, userID int64, categoryID *int64, start time.Time, end *time.Time) (float64, error)
}
