// internal/handler/analytics_test.go
package handler

import (
	"net/http"
	"testing"

	"finance-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

// Сквозной сценарий: регистрация, категории, транзакции, агрегаты.
func TestAnalyticsEndToEnd(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "u1@example.com")
	foodID := createCategory(t, router, "Food")
	salaryID := createCategory(t, router, "Salary")

	seed := []gin.H{
		{"category_id": salaryID, "amount": 500, "type": "income"},
		{"category_id": foodID, "amount": 100, "type": "expense"},
		{"category_id": foodID, "amount": 50, "type": "expense"},
	}
	for _, body := range seed {
		if w := doRequest(t, router, http.MethodPost, "/transactions", token, body); w.Code != http.StatusCreated {
			t.Fatalf("seed transaction: status %d, body %s", w.Code, w.Body.String())
		}
	}

	// Расходы по категориям: только Food, доход не учитывается
	w := doRequest(t, router, http.MethodGet, "/analytics/category-spending", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("category-spending: status %d, body %s", w.Code, w.Body.String())
	}
	var spending []domain.CategorySpending
	decodeJSON(t, w, &spending)
	if len(spending) != 1 || spending[0].Category != "Food" || spending[0].TotalSpent != 150 {
		t.Errorf("got %+v, want [{Food 150}]", spending)
	}

	// Сводка: всё создано сейчас, поэтому месячные итоги совпадают с общими
	w = doRequest(t, router, http.MethodGet, "/dashboard/summary", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d, body %s", w.Code, w.Body.String())
	}
	var s domain.Summary
	decodeJSON(t, w, &s)
	if s.IncomeTotal != 500 || s.ExpenseTotal != 150 {
		t.Errorf("totals: got %+v, want income 500 / expense 150", s)
	}
	if s.MonthIncome != 500 || s.MonthExpense != 150 {
		t.Errorf("month totals: got %+v, want income 500 / expense 150", s)
	}
}

func TestBudgetUsageEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "u1@example.com")
	foodID := createCategory(t, router, "Food")

	w := doRequest(t, router, http.MethodPost, "/budgets", token, gin.H{
		"category_id": foodID,
		"limit":       100,
		"period":      "monthly",
		"start_date":  "2000-01-01T00:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create budget: status %d, body %s", w.Code, w.Body.String())
	}
	var b domain.Budget
	decodeJSON(t, w, &b)

	// Пока расходов нет — spent присутствует и равен нулю
	w = doRequest(t, router, http.MethodGet, "/analytics/budget-usage", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("budget-usage: status %d, body %s", w.Code, w.Body.String())
	}
	var usage []domain.BudgetUsage
	decodeJSON(t, w, &usage)
	if len(usage) != 1 || usage[0].BudgetID != b.ID || usage[0].Spent != 0 {
		t.Fatalf("got %+v, want one row with spent 0", usage)
	}

	// Перерасход не обрезается до лимита
	for _, amount := range []float64{70, 50} {
		doRequest(t, router, http.MethodPost, "/transactions", token, gin.H{
			"category_id": foodID, "amount": amount, "type": "expense",
		})
	}
	w = doRequest(t, router, http.MethodGet, "/analytics/budget-usage", token, nil)
	decodeJSON(t, w, &usage)
	if usage[0].Spent != 120 {
		t.Errorf("Spent = %v, want 120", usage[0].Spent)
	}
	if usage[0].Limit != 100 {
		t.Errorf("Limit = %v, want 100", usage[0].Limit)
	}
}

func TestCategorySpendingWindowQuery(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "u1@example.com")
	foodID := createCategory(t, router, "Food")

	seed := []struct {
		amount float64
		ts     string
	}{
		{10, "2024-05-01T00:00:00Z"},
		{20, "2024-05-15T00:00:00Z"},
		{40, "2024-06-01T00:00:00Z"}, // за окном
	}
	for _, tx := range seed {
		doRequest(t, router, http.MethodPost, "/transactions", token, gin.H{
			"category_id": foodID, "amount": tx.amount, "type": "expense", "timestamp": tx.ts,
		})
	}

	w := doRequest(t, router, http.MethodGet,
		"/analytics/category-spending?start_date=2024-05-01T00:00:00Z&end_date=2024-05-31T00:00:00Z", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var spending []domain.CategorySpending
	decodeJSON(t, w, &spending)
	if len(spending) != 1 || spending[0].TotalSpent != 30 {
		t.Errorf("got %+v, want total 30", spending)
	}

	// Невалидная дата отклоняется
	w = doRequest(t, router, http.MethodGet, "/analytics/category-spending?start_date=may", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad start_date: status %d, want 400", w.Code)
	}
}

func TestRecentTransactionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "u1@example.com")
	foodID := createCategory(t, router, "Food")

	for i := 0; i < 15; i++ {
		doRequest(t, router, http.MethodPost, "/transactions", token, gin.H{
			"category_id": foodID, "amount": 1, "type": "expense",
		})
	}

	// Значение по умолчанию — 10
	w := doRequest(t, router, http.MethodGet, "/dashboard/recent-transactions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var page []domain.Transaction
	decodeJSON(t, w, &page)
	if len(page) != 10 {
		t.Errorf("default: got %d transactions, want 10", len(page))
	}

	w = doRequest(t, router, http.MethodGet, "/dashboard/recent-transactions?n=3", token, nil)
	decodeJSON(t, w, &page)
	if len(page) != 3 {
		t.Errorf("n=3: got %d transactions, want 3", len(page))
	}

	w = doRequest(t, router, http.MethodGet, "/dashboard/recent-transactions?n=0", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("n=0: status %d, want 400", w.Code)
	}
}
