// internal/handler/transaction.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	store        storage.TransactionStorage
	defaultLimit int
	maxLimit     int
}

func NewTransactionHandler(store storage.TransactionStorage, defaultLimit, maxLimit int) *TransactionHandler {
	return &TransactionHandler{store: store, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Create godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction data"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	// Знак не несёт смысла: направление задаётся полем type.
	if req.Amount <= 0 {
		errorJSON(c, http.StatusBadRequest, domain.ErrInvalidAmount.Error())
		return
	}

	t, err := h.store.CreateTransaction(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			errorJSON(c, http.StatusNotFound, "Category not found")
			return
		}
		slog.Error("create transaction failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// List godoc
// @Summary List transactions
// @Description Paginated, newest first; optional inclusive [start_date, end_date] window
// @Tags transactions
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (clamped to the configured maximum)"
// @Param start_date query string false "RFC3339 window start"
// @Param end_date query string false "RFC3339 window end"
// @Success 200 {array} domain.Transaction
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		errorJSON(c, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultLimit)))
	if err != nil || limit < 1 {
		errorJSON(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	startDate, ok := parseTimeQuery(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseTimeQuery(c, "end_date")
	if !ok {
		return
	}

	transactions, err := h.store.ListTransactions(c.Request.Context(), userID, domain.TransactionFilter{
		Skip:      skip,
		Limit:     limit,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		slog.Error("list transactions failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Get godoc
// @Summary Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.store.GetTransaction(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.Error("get transaction failed", "error", err, "user_id", userID, "id", id)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update godoc
// @Summary Update a transaction
// @Description Full replace of client-owned fields; id and user_id never change
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body TransactionRequest true "New field values"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		errorJSON(c, http.StatusBadRequest, domain.ErrInvalidAmount.Error())
		return
	}

	t, err := h.store.UpdateTransaction(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			errorJSON(c, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, domain.ErrCategoryNotFound):
			errorJSON(c, http.StatusNotFound, "Category not found")
		default:
			slog.Error("update transaction failed", "error", err, "user_id", userID, "id", id)
			internalError(c)
		}
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTransaction(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.Error("delete transaction failed", "error", err, "user_id", userID, "id", id)
		internalError(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		errorJSON(c, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	s := c.Query(name)
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, name+" must be an RFC3339 timestamp")
		return nil, false
	}
	return &t, true
}

// === DTO ===

type TransactionRequest struct {
	CategoryID  int64      `json:"category_id" validate:"required"`
	Amount      float64    `json:"amount"`
	Description *string    `json:"description" validate:"omitempty,max=256"`
	Timestamp   *time.Time `json:"timestamp"`
	Type        string     `json:"type" validate:"required,txtype"`
}

func (r TransactionRequest) toInput() domain.TransactionInput {
	return domain.TransactionInput{
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: r.Description,
		Timestamp:   r.Timestamp,
		Type:        domain.TransactionType(r.Type),
	}
}
