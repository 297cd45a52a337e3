package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// CategoryHandler exposes the category tree. Mutations are admin only
// and mounted behind the admin middleware.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create handles POST /v1/admin/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	category, err := h.categories.CreateCategory(c.Request.Context(), principal, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Category created", category)
}

// CreateSubCategories handles POST /v1/admin/categories/:id/sub-categories.
// One or many names may be supplied; all land in a single transaction.
func (h *CategoryHandler) CreateSubCategories(c *gin.Context) {
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Names []string `json:"names" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	subs, err := h.categories.CreateSubCategoriesBulk(c.Request.Context(), principal, parentID, req.Names)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Sub-categories created", subs)
}

// Update handles PUT /v1/admin/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		IsActive *bool  `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	category, err := h.categories.UpdateCategory(c.Request.Context(), principal, id, req.Name, *req.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Category updated", category)
}

// UpdateSubCategory handles PUT /v1/admin/sub-categories/:id.
func (h *CategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		IsActive *bool  `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	sub, err := h.categories.UpdateSubCategory(c.Request.Context(), principal, id, req.Name, *req.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sub-category updated", sub)
}

// Delete handles DELETE /v1/admin/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	principal := middleware.GetPrincipal(c)
	if err := h.categories.DeleteCategory(c.Request.Context(), principal, id); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Category deleted", gin.H{"id": id})
}

// DeleteSubCategory handles DELETE /v1/admin/sub-categories/:id.
func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	principal := middleware.GetPrincipal(c)
	if err := h.categories.DeleteSubCategory(c.Request.Context(), principal, id); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sub-category deleted", gin.H{"id": id})
}

// Get handles GET /v1/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Category retrieved", category)
}

// GetSubCategory handles GET /v1/sub-categories/:id.
func (h *CategoryHandler) GetSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sub, err := h.categories.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sub-category retrieved", sub)
}

// List handles GET /v1/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}

// ListSubCategories handles GET /v1/categories/:id/sub-categories.
func (h *CategoryHandler) ListSubCategories(c *gin.Context) {
	parentID, ok := paramID(c, "id")
	if !ok {
		return
	}
	subs, err := h.categories.ListSubCategories(c.Request.Context(), parentID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Sub-categories retrieved", subs)
}
