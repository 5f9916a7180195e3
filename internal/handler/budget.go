// internal/handler/budget.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	store storage.BudgetStorage
}

func NewBudgetHandler(store storage.BudgetStorage) *BudgetHandler {
	return &BudgetHandler{store: store}
}

// Create godoc
// @Summary Create a budget
// @Description category_id omitted/null means the budget covers all categories
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body BudgetRequest true "Budget data"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	req, ok := bindBudgetRequest(c)
	if !ok {
		return
	}

	b, err := h.store.CreateBudget(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			errorJSON(c, http.StatusNotFound, "Category not found")
			return
		}
		slog.Error("create budget failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// List godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Success 200 {array} domain.Budget
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	budgets, err := h.store.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		slog.Error("list budgets failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// Get godoc
// @Summary Get budget by ID
// @Tags budgets
// @Produce json
// @Param id path int true "Budget ID"
// @Success 200 {object} domain.Budget
// @Failure 404 {object} map[string]string
// @Router /budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.store.GetBudget(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Budget not found")
			return
		}
		slog.Error("get budget failed", "error", err, "user_id", userID, "id", id)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Update godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path int true "Budget ID"
// @Param request body BudgetRequest true "New field values"
// @Success 200 {object} domain.Budget
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	req, ok := bindBudgetRequest(c)
	if !ok {
		return
	}

	b, err := h.store.UpdateBudget(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			errorJSON(c, http.StatusNotFound, "Budget not found")
		case errors.Is(err, domain.ErrCategoryNotFound):
			errorJSON(c, http.StatusNotFound, "Category not found")
		default:
			slog.Error("update budget failed", "error", err, "user_id", userID, "id", id)
			internalError(c)
		}
		return
	}
	c.JSON(http.StatusOK, b)
}

// Delete godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteBudget(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Budget not found")
			return
		}
		slog.Error("delete budget failed", "error", err, "user_id", userID, "id", id)
		internalError(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindBudgetRequest разбирает тело и выполняет доменные проверки,
// общие для create и update.
func bindBudgetRequest(c *gin.Context) (BudgetRequest, bool) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return req, false
	}
	if req.Limit <= 0 {
		errorJSON(c, http.StatusBadRequest, domain.ErrInvalidAmount.Error())
		return req, false
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		errorJSON(c, http.StatusBadRequest, domain.ErrInvalidDateRange.Error())
		return req, false
	}
	return req, true
}

// === DTO ===

type BudgetRequest struct {
	CategoryID *int64     `json:"category_id"`
	Limit      float64    `json:"limit"`
	Period     string     `json:"period" validate:"required,notblank,max=32"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
	EndDate    *time.Time `json:"end_date"`
}

func (r BudgetRequest) toInput() domain.BudgetInput {
	return domain.BudgetInput{
		CategoryID: r.CategoryID,
		Limit:      r.Limit,
		Period:     r.Period,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}
