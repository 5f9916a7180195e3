// internal/storage/postgres/transactions.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, user_id, category_id, amount, description, timestamp, type`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &t.Timestamp, &t.Type)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// === TransactionStorage ===

func (s *Storage) CreateTransaction(ctx context.Context, userID int64, in domain.TransactionInput) (*domain.Transaction, error) {
	// Проверка категории и вставка — в одной транзакции, иначе между
	// проверкой и записью категорию могут удалить.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, in.CategoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, domain.ErrCategoryNotFound
	}

	t, err := scanTransaction(tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, amount, description, timestamp, type)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6)
		RETURNING `+transactionColumns+`
	`, userID, in.CategoryID, in.Amount, in.Description, in.Timestamp, in.Type))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return t, nil
}

func (s *Storage) ListTransactions(ctx context.Context, userID int64, f domain.TransactionFilter) ([]domain.Transaction, error) {
	// Детерминированная пагинация: timestamp DESC, при равенстве — id DESC.
	rows, err := s.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR timestamp <= $3)
		ORDER BY timestamp DESC, id DESC
		OFFSET $4 LIMIT $5
	`, userID, f.StartDate, f.EndDate, f.Skip, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &t.Timestamp, &t.Type); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Storage) GetTransaction(ctx context.Context, userID, id int64) (*domain.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2
	`, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Чужая и несуществующая запись неразличимы для вызывающего.
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, userID, id int64, in domain.TransactionInput) (*domain.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, in.CategoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return nil, domain.ErrCategoryNotFound
	}

	t, err := scanTransaction(tx.QueryRow(ctx, `
		UPDATE transactions
		SET category_id = $3,
		    amount      = $4,
		    description = $5,
		    timestamp   = COALESCE($6, timestamp),
		    type        = $7
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns+`
	`, userID, id, in.CategoryID, in.Amount, in.Description, in.Timestamp, in.Type))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return t, nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
