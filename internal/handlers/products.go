package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/services"
	apperrors "github.com/sceu/clinic/pkg/errors"
)

// ProductHandler handles product and raw material endpoints
type ProductHandler struct {
	products *services.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductRequest represents a product creation request
type ProductRequest struct {
	Name        string `json:"name"`
	Subcategory string `json:"subcategory"`
}

// MaterialQuantityRequest sets the quantity of a raw material on a product
type MaterialQuantityRequest struct {
	RawMaterialID string `json:"raw_material_id"`
	Quantity      string `json:"quantity"`
}

// ListProducts lists all products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct creates a new product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), req.Name, req.Subcategory)
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct retrieves a product with its raw material requirements
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid product id"))
		return
	}

	detail, err := h.products.GetProductDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperrors.NotFound("product not found"))
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteProduct deletes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid product id"))
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// SetMaterialQuantity sets how much of a raw material a product needs
func (h *ProductHandler) SetMaterialQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid product id"))
		return
	}

	var req MaterialQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	rawMaterialID, err := uuid.Parse(req.RawMaterialID)
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid raw_material_id"))
		return
	}

	if err := h.products.SetMaterialQuantity(c.Request.Context(), productID, rawMaterialID, req.Quantity); err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "material quantity set"})
}

// ListRawMaterials lists all raw materials
func (h *ProductHandler) ListRawMaterials(c *gin.Context) {
	materials, err := h.products.ListRawMaterials(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

// CreateRawMaterial creates a raw material
func (h *ProductHandler) CreateRawMaterial(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	material, err := h.products.CreateRawMaterial(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, material)
}
