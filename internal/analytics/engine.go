// internal/analytics/engine.go
//
// Движок аналитики. Собственного состояния не хранит: каждый вызов —
// функция от текущего содержимого хранилища.
package analytics

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"
)

// Store — всё, что нужно движку из хранилища.
type Store interface {
	storage.AnalyticsStorage
	storage.BudgetStorage
	storage.TransactionStorage
}

type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewEngineWithClock позволяет тестам закрепить границу текущего месяца.
func NewEngineWithClock(store Store, now func() time.Time) *Engine {
	return &Engine{store: store, now: now}
}

// MonthStartUTC — первое число текущего месяца, 00:00 UTC.
func MonthStartUTC(now time.Time) time.Time {
	t := now.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (e *Engine) Summary(ctx context.Context, userID int64) (*domain.Summary, error) {
	monthStart := MonthStartUTC(e.now())

	incomeTotal, err := e.store.SumAmountByType(ctx, userID, domain.TypeIncome, nil)
	if err != nil {
		return nil, fmt.Errorf("income total: %w", err)
	}
	expenseTotal, err := e.store.SumAmountByType(ctx, userID, domain.TypeExpense, nil)
	if err != nil {
		return nil, fmt.Errorf("expense total: %w", err)
	}
	monthIncome, err := e.store.SumAmountByType(ctx, userID, domain.TypeIncome, &monthStart)
	if err != nil {
		return nil, fmt.Errorf("month income: %w", err)
	}
	monthExpense, err := e.store.SumAmountByType(ctx, userID, domain.TypeExpense, &monthStart)
	if err != nil {
		return nil, fmt.Errorf("month expense: %w", err)
	}

	return &domain.Summary{
		IncomeTotal:  incomeTotal,
		ExpenseTotal: expenseTotal,
		MonthIncome:  monthIncome,
		MonthExpense: monthExpense,
	}, nil
}

func (e *Engine) CategorySpending(ctx context.Context, userID int64, start, end *time.Time) ([]domain.CategorySpending, error) {
	return e.store.CategorySpending(ctx, userID, start, end)
}

func (e *Engine) BudgetUsage(ctx context.Context, userID int64) ([]domain.BudgetUsage, error) {
	budgets, err := e.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	usage := make([]domain.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		// spent всегда число: бюджет без расходов показывает 0.
		spent, err := e.store.SumExpenses(ctx, userID, b.CategoryID, b.StartDate, b.EndDate)
		if err != nil {
			return nil, fmt.Errorf("budget %d spent: %w", b.ID, err)
		}
		usage = append(usage, domain.BudgetUsage{
			BudgetID:   b.ID,
			CategoryID: b.CategoryID,
			Period:     b.Period,
			Limit:      b.Limit,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Spent:      spent,
		})
	}
	return usage, nil
}

// RecentTransactions возвращает n последних транзакций, n ограничено [1, 100].
func (e *Engine) RecentTransactions(ctx context.Context, userID int64, n int) ([]domain.Transaction, error) {
	if n < 1 {
		n = 10
	}
	if n > 100 {
		n = 100
	}
	return e.store.ListTransactions(ctx, userID, domain.TransactionFilter{Limit: n})
}
