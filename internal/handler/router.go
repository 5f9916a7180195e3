// internal/handler/router.go
package handler

import (
	"net/http"

	"finance-tracker/internal/analytics"
	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// CombinedStorage — всё, что нужно HTTP-слою от хранилища.
type CombinedStorage interface {
	storage.UserStorage
	storage.CategoryStorage
	storage.TransactionStorage
	storage.BudgetStorage
	storage.AnalyticsStorage
}

// NewRouter собирает gin-движок с полным набором маршрутов.
func NewRouter(cfg config.Config, store CombinedStorage, tokens *auth.TokenService, engine *analytics.Engine) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(store, tokens)
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Категории — глобальный справочник, доступны без токена.
	categoryHandler := NewCategoryHandler(store)
	router.GET("/categories", categoryHandler.List)
	router.POST("/categories", categoryHandler.Create)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		transactionHandler := NewTransactionHandler(store, cfg.DefaultPageSize, cfg.MaxPageSize)
		protected.POST("/transactions", transactionHandler.Create)
		protected.GET("/transactions", transactionHandler.List)
		protected.GET("/transactions/:id", transactionHandler.Get)
		protected.PUT("/transactions/:id", transactionHandler.Update)
		protected.DELETE("/transactions/:id", transactionHandler.Delete)

		budgetHandler := NewBudgetHandler(store)
		protected.POST("/budgets", budgetHandler.Create)
		protected.GET("/budgets", budgetHandler.List)
		protected.GET("/budgets/:id", budgetHandler.Get)
		protected.PUT("/budgets/:id", budgetHandler.Update)
		protected.DELETE("/budgets/:id", budgetHandler.Delete)

		analyticsHandler := NewAnalyticsHandler(engine)
		protected.GET("/dashboard/summary", analyticsHandler.Summary)
		protected.GET("/dashboard/recent-transactions", analyticsHandler.RecentTransactions)
		protected.GET("/analytics/category-spending", analyticsHandler.CategorySpending)
		protected.GET("/analytics/budget-usage", analyticsHandler.BudgetUsage)
	}

	return router
}
