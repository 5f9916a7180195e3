// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Коды ошибок Postgres
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, email, passwordHash string, fullName *string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, full_name, created_at
	`, email, passwordHash, fullName).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at, telegram_chat_id
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.TelegramChatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *Storage) LinkTelegramChat(ctx context.Context, userID, chatID int64) error {
	// Один чат — один аккаунт: старая привязка этого чата снимается.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE users SET telegram_chat_id = NULL WHERE telegram_chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("clear old link: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET telegram_chat_id = $1 WHERE id = $2`, chatID, userID)
	if err != nil {
		return fmt.Errorf("link telegram chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Storage) UnlinkTelegramChat(ctx context.Context, chatID int64) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET telegram_chat_id = NULL WHERE telegram_chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("unlink telegram chat: %w", err)
	}
	return nil
}

func (s *Storage) FindUserByTelegramChat(ctx context.Context, chatID int64) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, created_at, telegram_chat_id
		FROM users WHERE telegram_chat_id = $1
	`, chatID).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.TelegramChatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by telegram chat: %w", err)
	}
	return &u, nil
}

// === CategoryStorage ===

func (s *Storage) CreateCategory(ctx context.Context, name string, color *string) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (name, color)
		VALUES ($1, $2)
		RETURNING id, name, color
	`, name, color).Scan(&cat.ID, &cat.Name, &cat.Color)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, color FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Storage) FindCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	var cat domain.Category
	err := s.db.QueryRow(ctx, `SELECT id, name, color FROM categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name, &cat.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &cat, nil
}
