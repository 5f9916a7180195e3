// internal/handler/analytics.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"finance-tracker/internal/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	engine *analytics.Engine
}

func NewAnalyticsHandler(engine *analytics.Engine) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine}
}

// Summary godoc
// @Summary Dashboard financial summary
// @Description Lifetime income/expense totals plus totals for the current calendar month (UTC)
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.Summary
// @Router /dashboard/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.engine.Summary(c.Request.Context(), userID)
	if err != nil {
		slog.Error("summary failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RecentTransactions godoc
// @Summary Most recent N transactions
// @Tags dashboard
// @Produce json
// @Param n query int false "How many (1-100, default 10)"
// @Success 200 {array} domain.Transaction
// @Router /dashboard/recent-transactions [get]
func (h *AnalyticsHandler) RecentTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n < 1 {
		errorJSON(c, http.StatusBadRequest, "n must be a positive integer")
		return
	}

	transactions, err := h.engine.RecentTransactions(c.Request.Context(), userID, n)
	if err != nil {
		slog.Error("recent transactions failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// CategorySpending godoc
// @Summary Spending totals grouped by category
// @Description Expense transactions only, optionally bounded by an inclusive [start_date, end_date] window
// @Tags analytics
// @Produce json
// @Param start_date query string false "RFC3339 window start"
// @Param end_date query string false "RFC3339 window end"
// @Success 200 {array} domain.CategorySpending
// @Router /analytics/category-spending [get]
func (h *AnalyticsHandler) CategorySpending(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	startDate, ok := parseTimeQuery(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseTimeQuery(c, "end_date")
	if !ok {
		return
	}

	spending, err := h.engine.CategorySpending(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		slog.Error("category spending failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, spending)
}

// BudgetUsage godoc
// @Summary Spent vs. limit for each budget
// @Description spent is always present and defaults to 0; over-limit values are not clamped
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.BudgetUsage
// @Router /analytics/budget-usage [get]
func (h *AnalyticsHandler) BudgetUsage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	usage, err := h.engine.BudgetUsage(c.Request.Context(), userID)
	if err != nil {
		slog.Error("budget usage failed", "error", err, "user_id", userID)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, usage)
}
