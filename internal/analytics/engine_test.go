// internal/analytics/engine_test.go
package analytics

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage/memory"
)

var ctx = context.Background()

// Закреплённое "сейчас": 15 мая 2024, 12:00 UTC
var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Storage
	engine *Engine
	userID int64
	food   int64
	salary int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStorage()
	store.Now = func() time.Time { return fixedNow }

	u, err := store.CreateUser(ctx, "u1@example.com", "digest", nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	food, err := store.CreateCategory(ctx, "Food", nil)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	salary, err := store.CreateCategory(ctx, "Salary", nil)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	return &fixture{
		store:  store,
		engine: NewEngineWithClock(store, func() time.Time { return fixedNow }),
		userID: u.ID,
		food:   food.ID,
		salary: salary.ID,
	}
}

func (f *fixture) addTx(t *testing.T, categoryID int64, amount float64, txType domain.TransactionType, ts time.Time) {
	t.Helper()
	_, err := f.store.CreateTransaction(ctx, f.userID, domain.TransactionInput{
		CategoryID: categoryID,
		Amount:     amount,
		Timestamp:  &ts,
		Type:       txType,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
}

func TestMonthStartUTC(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 5, 15, 12, 30, 0, 0, time.UTC), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		// Локальное время приводится к UTC до усечения
		{time.Date(2024, 6, 1, 0, 30, 0, 0, time.FixedZone("UTC+2", 2*3600)), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := MonthStartUTC(tt.now); !got.Equal(tt.want) {
			t.Errorf("MonthStartUTC(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

// Итоги строго разделяются по type; знак суммы роли не играет.
func TestSummaryBranchesOnType(t *testing.T) {
	f := newFixture(t)

	f.addTx(t, f.salary, 500, domain.TypeIncome, fixedNow.Add(-time.Hour))
	f.addTx(t, f.food, 100, domain.TypeExpense, fixedNow.Add(-2*time.Hour))
	f.addTx(t, f.food, 50, domain.TypeExpense, fixedNow.Add(-3*time.Hour))

	s, err := f.engine.Summary(ctx, f.userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.IncomeTotal != 500 {
		t.Errorf("IncomeTotal = %v, want 500", s.IncomeTotal)
	}
	if s.ExpenseTotal != 150 {
		t.Errorf("ExpenseTotal = %v, want 150", s.ExpenseTotal)
	}
}

func TestSummaryMonthWindow(t *testing.T) {
	f := newFixture(t)

	monthStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// Прошлый месяц — только в lifetime-итогах
	f.addTx(t, f.salary, 1000, domain.TypeIncome, monthStart.Add(-time.Minute))
	f.addTx(t, f.food, 200, domain.TypeExpense, monthStart.Add(-24*time.Hour))
	// Текущий месяц, включая ровно границу
	f.addTx(t, f.salary, 300, domain.TypeIncome, monthStart)
	f.addTx(t, f.food, 70, domain.TypeExpense, monthStart.Add(48*time.Hour))

	s, err := f.engine.Summary(ctx, f.userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.IncomeTotal != 1300 {
		t.Errorf("IncomeTotal = %v, want 1300", s.IncomeTotal)
	}
	if s.ExpenseTotal != 270 {
		t.Errorf("ExpenseTotal = %v, want 270", s.ExpenseTotal)
	}
	if s.MonthIncome != 300 {
		t.Errorf("MonthIncome = %v, want 300", s.MonthIncome)
	}
	if s.MonthExpense != 70 {
		t.Errorf("MonthExpense = %v, want 70", s.MonthExpense)
	}
}

func TestCategorySpending(t *testing.T) {
	f := newFixture(t)

	f.addTx(t, f.salary, 500, domain.TypeIncome, fixedNow)
	f.addTx(t, f.food, 100, domain.TypeExpense, fixedNow)
	f.addTx(t, f.food, 50, domain.TypeExpense, fixedNow)

	got, err := f.engine.CategorySpending(ctx, f.userID, nil, nil)
	if err != nil {
		t.Fatalf("CategorySpending: %v", err)
	}
	// Salary опущена: по ней нет расходов
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(got), got)
	}
	if got[0].Category != "Food" || got[0].TotalSpent != 150 {
		t.Errorf("got %+v, want {Food 150}", got[0])
	}
}

func TestCategorySpendingWindowInclusive(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	f.addTx(t, f.food, 10, domain.TypeExpense, start)                    // ровно начало окна
	f.addTx(t, f.food, 20, domain.TypeExpense, end)                      // ровно конец окна
	f.addTx(t, f.food, 40, domain.TypeExpense, start.Add(-time.Second))  // за окном
	f.addTx(t, f.food, 80, domain.TypeExpense, end.Add(time.Second))     // за окном

	got, err := f.engine.CategorySpending(ctx, f.userID, &start, &end)
	if err != nil {
		t.Fatalf("CategorySpending: %v", err)
	}
	if len(got) != 1 || got[0].TotalSpent != 30 {
		t.Errorf("got %+v, want total 30", got)
	}
}

func TestBudgetUsageZeroDefault(t *testing.T) {
	f := newFixture(t)

	b, err := f.store.CreateBudget(ctx, f.userID, domain.BudgetInput{
		Limit: 100, Period: "monthly", StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	usage, err := f.engine.BudgetUsage(ctx, f.userID)
	if err != nil {
		t.Fatalf("BudgetUsage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("got %d rows, want 1", len(usage))
	}
	if usage[0].BudgetID != b.ID || usage[0].Spent != 0 {
		t.Errorf("got %+v, want spent 0", usage[0])
	}
}

func TestBudgetUsageOverLimitNotClamped(t *testing.T) {
	f := newFixture(t)

	monthStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.store.CreateBudget(ctx, f.userID, domain.BudgetInput{
		CategoryID: &f.food, Limit: 100, Period: "monthly", StartDate: monthStart,
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	f.addTx(t, f.food, 120, domain.TypeExpense, monthStart.Add(24*time.Hour))

	usage, err := f.engine.BudgetUsage(ctx, f.userID)
	if err != nil {
		t.Fatalf("BudgetUsage: %v", err)
	}
	if usage[0].Spent != 120 {
		t.Errorf("Spent = %v, want 120 (over-limit must not be clamped)", usage[0].Spent)
	}
}

func TestBudgetUsageCategoryAndWindowFilters(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	// Бюджет только по Food и с конечной датой
	_, err := f.store.CreateBudget(ctx, f.userID, domain.BudgetInput{
		CategoryID: &f.food, Limit: 100, Period: "monthly", StartDate: start, EndDate: &end,
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	// Общий бюджет по всем категориям
	_, err = f.store.CreateBudget(ctx, f.userID, domain.BudgetInput{
		Limit: 500, Period: "monthly", StartDate: start,
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	other, err := f.store.CreateCategory(ctx, "Transport", nil)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	f.addTx(t, f.food, 30, domain.TypeExpense, start.Add(time.Hour))
	f.addTx(t, other.ID, 40, domain.TypeExpense, start.Add(2*time.Hour)) // не Food
	f.addTx(t, f.food, 50, domain.TypeExpense, end.Add(time.Hour))       // после end_date
	f.addTx(t, f.salary, 900, domain.TypeIncome, start.Add(time.Hour))   // доход не считается

	usage, err := f.engine.BudgetUsage(ctx, f.userID)
	if err != nil {
		t.Fatalf("BudgetUsage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d rows, want 2", len(usage))
	}

	for _, u := range usage {
		if u.CategoryID != nil {
			if u.Spent != 30 {
				t.Errorf("food budget spent = %v, want 30", u.Spent)
			}
		} else {
			// Без категории: все расходы с start_date, end_date нет
			if u.Spent != 120 {
				t.Errorf("general budget spent = %v, want 120", u.Spent)
			}
		}
	}
}

func TestRecentTransactionsClamp(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 105; i++ {
		f.addTx(t, f.food, 1, domain.TypeExpense, fixedNow.Add(time.Duration(i)*time.Minute))
	}

	got, err := f.engine.RecentTransactions(ctx, f.userID, 1000)
	if err != nil {
		t.Fatalf("RecentTransactions: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("got %d transactions, want clamp to 100", len(got))
	}

	got, err = f.engine.RecentTransactions(ctx, f.userID, 3)
	if err != nil {
		t.Fatalf("RecentTransactions: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d transactions, want 3", len(got))
	}
	// Самая свежая — первой
	if got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("recent transactions not ordered newest first")
	}
}
