// internal/handler/category.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	store storage.CategoryStorage
}

func NewCategoryHandler(store storage.CategoryStorage) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// List godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create godoc
// @Summary Create a new category
// @Description Name must be unique (case-sensitive)
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category data"
// @Success 201 {object} domain.Category
// @Failure 400 {object} map[string]string
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.store.CreateCategory(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			errorJSON(c, http.StatusBadRequest, "Category name already exists")
			return
		}
		slog.Error("create category failed", "error", err)
		internalError(c)
		return
	}

	slog.Info("category created", "category_id", cat.ID, "name", cat.Name)
	c.JSON(http.StatusCreated, cat)
}

// === DTO ===

type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required,notblank,max=64"`
	Color *string `json:"color" validate:"omitempty,max=32"`
}
