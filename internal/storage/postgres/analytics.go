// internal/storage/postgres/analytics.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/domain"
)

// === AnalyticsStorage ===

func (s *Storage) SumAmountByType(ctx context.Context, userID int64, txType domain.TransactionType, since *time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2
		  AND ($3::timestamptz IS NULL OR timestamp >= $3)
	`, userID, txType, since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum by type: %w", err)
	}
	return total, nil
}

func (s *Storage) CategorySpending(ctx context.Context, userID int64, start, end *time.Time) ([]domain.CategorySpending, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.name, SUM(t.amount) AS total_spent
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = 'expense'
		  AND ($2::timestamptz IS NULL OR t.timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR t.timestamp <= $3)
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("category spending: %w", err)
	}
	defer rows.Close()

	result := []domain.CategorySpending{}
	for rows.Next() {
		var cs domain.CategorySpending
		if err := rows.Scan(&cs.Category, &cs.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan category spending: %w", err)
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}

func (s *Storage) SumExpenses(ctx context.Context, userID int64, categoryID *int64, start time.Time, end *time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		  AND timestamp >= $2
		  AND ($3::timestamptz IS NULL OR timestamp <= $3)
		  AND ($4::bigint IS NULL OR category_id = $4)
	`, userID, start, end, categoryID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
