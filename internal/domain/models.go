// internal/domain/models.go
package domain

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       *string   `json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
	TelegramChatID *int64    `json:"-"`
}

type Category struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	Amount      float64         `json:"amount"`
	Description *string         `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	Type        TransactionType `json:"type"`
}

// TransactionInput — поля транзакции, задаваемые клиентом.
// id и user_id сюда не входят: после создания они не меняются.
type TransactionInput struct {
	CategoryID  int64
	Amount      float64
	Description *string
	Timestamp   *time.Time // nil: при создании — текущее время, при обновлении — прежнее значение
	Type        TransactionType
}

// TransactionFilter ограничивает выборку: пагинация плюс
// необязательное включительное окно [StartDate, EndDate].
type TransactionFilter struct {
	Skip      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

type Budget struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	CategoryID *int64     `json:"category_id"`
	Limit      float64    `json:"limit"`
	Period     string     `json:"period"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

type BudgetInput struct {
	CategoryID *int64
	Limit      float64
	Period     string
	StartDate  time.Time
	EndDate    *time.Time
}

type Summary struct {
	IncomeTotal  float64 `json:"income_total"`
	ExpenseTotal float64 `json:"expense_total"`
	MonthIncome  float64 `json:"month_income"`
	MonthExpense float64 `json:"month_expense"`
}

type CategorySpending struct {
	Category   string  `json:"category"`
	TotalSpent float64 `json:"total_spent"`
}

type BudgetUsage struct {
	BudgetID   int64      `json:"budget_id"`
	CategoryID *int64     `json:"category_id"`
	Period     string     `json:"period"`
	Limit      float64    `json:"limit"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Spent      float64    `json:"spent"`
}
