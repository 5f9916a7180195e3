// internal/storage/postgres/budgets.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, category_id, limit_amount, period, start_date, end_date`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.StartDate, &b.EndDate)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func checkBudgetCategory(ctx context.Context, tx pgx.Tx, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, *categoryID).Scan(&exists); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// === BudgetStorage ===

func (s *Storage) CreateBudget(ctx context.Context, userID int64, in domain.BudgetInput) (*domain.Budget, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkBudgetCategory(ctx, tx, in.CategoryID); err != nil {
		return nil, err
	}

	b, err := scanBudget(tx.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, limit_amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+budgetColumns+`
	`, userID, in.CategoryID, in.Limit, in.Period, in.StartDate, in.EndDate))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("insert budget: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return b, nil
}

func (s *Storage) ListBudgets(ctx context.Context, userID int64) ([]domain.Budget, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY start_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.StartDate, &b.EndDate); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Storage) GetBudget(ctx context.Context, userID, id int64) (*domain.Budget, error) {
	b, err := scanBudget(s.db.QueryRow(ctx, `
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2
	`, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (s *Storage) UpdateBudget(ctx context.Context, userID, id int64, in domain.BudgetInput) (*domain.Budget, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkBudgetCategory(ctx, tx, in.CategoryID); err != nil {
		return nil, err
	}

	b, err := scanBudget(tx.QueryRow(ctx, `
		UPDATE budgets
		SET category_id  = $3,
		    limit_amount = $4,
		    period       = $5,
		    start_date   = $6,
		    end_date     = $7
		WHERE user_id = $1 AND id = $2
		RETURNING `+budgetColumns+`
	`, userID, id, in.CategoryID, in.Limit, in.Period, in.StartDate, in.EndDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update budget: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return b, nil
}

func (s *Storage) DeleteBudget(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
