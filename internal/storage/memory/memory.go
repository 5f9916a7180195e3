// internal/storage/memory/memory.go
//
// In-memory реализация хранилища. Повторяет семантику postgres-бэкенда
// (владение, сортировки, агрегаты) и используется в тестах.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"finance-tracker/internal/domain"
)

type Storage struct {
	mu sync.RWMutex

	users        map[int64]*domain.User
	categories   map[int64]*domain.Category
	transactions map[int64]*domain.Transaction
	budgets      map[int64]*domain.Budget

	nextUserID        int64
	nextCategoryID    int64
	nextTransactionID int64
	nextBudgetID      int64

	// Подменяемые часы для тестов (по умолчанию time.Now).
	Now func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		users:        make(map[int64]*domain.User),
		categories:   make(map[int64]*domain.Category),
		transactions: make(map[int64]*domain.Transaction),
		budgets:      make(map[int64]*domain.Budget),
		Now:          time.Now,
	}
}

// === UserStorage ===

func (s *Storage) CreateUser(_ context.Context, email, passwordHash string, fullName *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	s.nextUserID++
	u := &domain.User{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		CreatedAt:    s.Now().UTC(),
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *Storage) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Storage) LinkTelegramChat(_ context.Context, userID, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range s.users {
		if other.TelegramChatID != nil && *other.TelegramChatID == chatID {
			other.TelegramChatID = nil
		}
	}
	id := chatID
	u.TelegramChatID = &id
	return nil
}

func (s *Storage) UnlinkTelegramChat(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			u.TelegramChatID = nil
		}
	}
	return nil
}

func (s *Storage) FindUserByTelegramChat(_ context.Context, chatID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// === CategoryStorage ===

func (s *Storage) CreateCategory(_ context.Context, name string, color *string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return nil, domain.ErrDuplicateName
		}
	}
	s.nextCategoryID++
	cat := &domain.Category{ID: s.nextCategoryID, Name: name, Color: color}
	s.categories[cat.ID] = cat
	cp := *cat
	return &cp, nil
}

func (s *Storage) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Category{}
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Storage) FindCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

// === TransactionStorage ===

func (s *Storage) CreateTransaction(_ context.Context, userID int64, in domain.TransactionInput) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[in.CategoryID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	ts := s.Now().UTC()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	s.nextTransactionID++
	t := &domain.Transaction{
		ID:          s.nextTransactionID,
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Description: in.Description,
		Timestamp:   ts,
		Type:        in.Type,
	}
	s.transactions[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *Storage) ListTransactions(_ context.Context, userID int64, f domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []domain.Transaction{}
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if f.StartDate != nil && t.Timestamp.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && t.Timestamp.After(*f.EndDate) {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Skip >= len(matched) {
		return []domain.Transaction{}, nil
	}
	matched = matched[f.Skip:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (s *Storage) GetTransaction(_ context.Context, userID, id int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Storage) UpdateTransaction(_ context.Context, userID, id int64, in domain.TransactionInput) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if _, ok := s.categories[in.CategoryID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	t.CategoryID = in.CategoryID
	t.Amount = in.Amount
	t.Description = in.Description
	t.Type = in.Type
	if in.Timestamp != nil {
		t.Timestamp = *in.Timestamp
	}
	cp := *t
	return &cp, nil
}

func (s *Storage) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

// === BudgetStorage ===

func (s *Storage) CreateBudget(_ context.Context, userID int64, in domain.BudgetInput) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.CategoryID != nil {
		if _, ok := s.categories[*in.CategoryID]; !ok {
			return nil, domain.ErrCategoryNotFound
		}
	}
	s.nextBudgetID++
	b := &domain.Budget{
		ID:         s.nextBudgetID,
		UserID:     userID,
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Period:     in.Period,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	s.budgets[b.ID] = b
	cp := *b
	return &cp, nil
}

func (s *Storage) ListBudgets(_ context.Context, userID int64) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Budget{}
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Storage) GetBudget(_ context.Context, userID, id int64) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Storage) UpdateBudget(_ context.Context, userID, id int64, in domain.BudgetInput) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if in.CategoryID != nil {
		if _, ok := s.categories[*in.CategoryID]; !ok {
			return nil, domain.ErrCategoryNotFound
		}
	}
	b.CategoryID = in.CategoryID
	b.Limit = in.Limit
	b.Period = in.Period
	b.StartDate = in.StartDate
	b.EndDate = in.EndDate
	cp := *b
	return &cp, nil
}

func (s *Storage) DeleteBudget(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

// === AnalyticsStorage ===

func (s *Storage) SumAmountByType(_ context.Context, userID int64, txType domain.TransactionType, since *time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, t := range s.transactions {
		if t.UserID != userID || t.Type != txType {
			continue
		}
		if since != nil && t.Timestamp.Before(*since) {
			continue
		}
		total += t.Amount
	}
	return total, nil
}

func (s *Storage) CategorySpending(_ context.Context, userID int64, start, end *time.Time) ([]domain.CategorySpending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[int64]float64{}
	for _, t := range s.transactions {
		if t.UserID != userID || t.Type != domain.TypeExpense {
			continue
		}
		if start != nil && t.Timestamp.Before(*start) {
			continue
		}
		if end != nil && t.Timestamp.After(*end) {
			continue
		}
		totals[t.CategoryID] += t.Amount
	}

	result := []domain.CategorySpending{}
	for catID, total := range totals {
		result = append(result, domain.CategorySpending{
			Category:   s.categories[catID].Name,
			TotalSpent: total,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalSpent != result[j].TotalSpent {
			return result[i].TotalSpent > result[j].TotalSpent
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (s *Storage) SumExpenses(_ context.Context, userID int64, categoryID *int64, start time.Time, end *time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, t := range s.transactions {
		if t.UserID != userID || t.Type != domain.TypeExpense {
			continue
		}
		if t.Timestamp.Before(start) {
			continue
		}
		if end != nil && t.Timestamp.After(*end) {
			continue
		}
		if categoryID != nil && t.CategoryID != *categoryID {
			continue
		}
		total += t.Amount
	}
	return total, nil
}
