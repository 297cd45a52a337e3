package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hemshop/hemshop-api/internal/middleware"
	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/service"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// ProductHandler exposes catalog reads and seller product management.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	product, err := h.catalog.CreateProduct(c.Request.Context(), principal, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// Update handles PUT /v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	principal := middleware.GetPrincipal(c)
	product, err := h.catalog.UpdateProduct(c.Request.Context(), principal, id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// Delete handles DELETE /v1/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.catalog.DeleteProduct(c.Request.Context(), principal, id); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", gin.H{"id": id})
}

// Get handles GET /v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// List handles GET /v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// ListByCategory handles GET /v1/categories/:id/products.
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	products, err := h.catalog.ListProductsByCategory(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// ListBySeller handles GET /v1/sellers/:address/products.
func (h *ProductHandler) ListBySeller(c *gin.Context) {
	products, err := h.catalog.ListSellerProducts(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}
