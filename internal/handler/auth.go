// internal/handler/auth.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	store  storage.UserStorage
	tokens *auth.TokenService
}

func NewAuthHandler(store storage.UserStorage, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with a unique email; the password is stored as a bcrypt digest
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		internalError(c)
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Email, hash, req.FullName)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			errorJSON(c, http.StatusBadRequest, "Email already registered")
			return
		}
		slog.Error("create user failed", "error", err)
		internalError(c)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Authenticate and get a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	// Неизвестный email и неверный пароль дают один и тот же ответ,
	// чтобы по ошибке нельзя было перебирать аккаунты.
	user, err := h.store.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(c, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
			return
		}
		slog.Error("find user failed", "error", err)
		internalError(c)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		errorJSON(c, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		slog.Error("token generation failed", "error", err, "user_id", user.ID)
		internalError(c)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"token": token, "token_type": "bearer"})
}

// === DTO ===

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
