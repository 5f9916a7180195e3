// internal/domain/errors.go
package domain

import "errors"

// Доменные ошибки. Хендлеры переводят их в HTTP-статусы через errors.Is.
var (
	// ErrNotFound covers both "row does not exist" and "row belongs to
	// another user" — the two cases must stay indistinguishable.
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateName      = errors.New("name already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDateRange   = errors.New("end_date must not be before start_date")
)
