package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/interfaces/http/dto"
)

// ProductService is the catalog use-case surface served over HTTP
type ProductService interface {
	List(ctx context.Context, page, pageSize int) (shared.Paginated[catalogapp.ProductResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Filter(ctx context.Context, req catalogapp.ProductFilterRequest, page, pageSize int) (shared.Paginated[catalogapp.ProductResponse], error)
	ListByCategory(ctx context.Context, category string) ([]catalogapp.ProductResponse, error)
	ListSortedByPrice(ctx context.Context, order string) ([]catalogapp.ProductResponse, error)
	Search(ctx context.Context, req catalogapp.ProductFilterRequest) ([]catalogapp.ProductResponse, error)
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService ProductService
	exports        Exporter
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService, exports Exporter) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		exports:        exports,
	}
}

// SortedRequest selects the price ordering
type SortedRequest struct {
	Order string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Returns one page of products, newest first
// @Tags         products
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"   default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	req = req.WithDefaults()

	result, err := h.productService.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Replace a product
// @Description  Overwrites every field of an existing product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Filter godoc
// @ID           filterProducts
// @Summary      Filter products
// @Description  Returns one page of products matching every supplied predicate
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        page      query int                             false "Page number" default(1)
// @Param        page_size query int                             false "Page size"   default(20)
// @Param        request   body  catalogapp.ProductFilterRequest true  "Predicates"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products/filter [post]
func (h *ProductHandler) Filter(c *gin.Context) {
	var page dto.ListRequest
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.WithDefaults()

	var req catalogapp.ProductFilterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.Filter(c.Request.Context(), req, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Search godoc
// @ID           searchProducts
// @Summary      Search products
// @Description  Returns every matching product, sorted by sortBy/sortDirection when given
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductFilterRequest true "Predicates and sort"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products/search [post]
func (h *ProductHandler) Search(c *gin.Context) {
	var req catalogapp.ProductFilterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	products, err := h.productService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListByCategory godoc
// @ID           listProductsByCategory
// @Summary      List products of a category
// @Tags         products
// @Produce      json
// @Param        category path string true "Category, matched ignoring case"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /products/category/{category} [get]
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	products, err := h.productService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListSorted godoc
// @ID           listProductsSortedByPrice
// @Summary      List products sorted by price
// @Tags         products
// @Produce      json
// @Param        order query string false "Sort order" Enums(asc, desc) default(asc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products/sorted [get]
func (h *ProductHandler) ListSorted(c *gin.Context) {
	var req SortedRequest
	if !h.bindQuery(c, &req) {
		return
	}

	products, err := h.productService.ListSortedByPrice(c.Request.Context(), req.Order)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ExportCSV godoc
// @ID           exportProductsCsvFromCatalog
// @Summary      Download the catalog as CSV
// @Tags         products
// @Produce      text/csv
// @Success      200 {file} file
// @Failure      500 {object} ErrorResponse
// @Router       /products/export/csv [get]
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	file, err := h.exports.ProductsCSV(c.Request.Context())
	h.sendFile(c, file, err)
}

// ExportPDF godoc
// @ID           exportProductsPdfFromCatalog
// @Summary      Download the catalog report as PDF
// @Tags         products
// @Produce      application/pdf
// @Success      200 {file} file
// @Failure      500 {object} ErrorResponse
// @Router       /products/export/pdf [get]
func (h *ProductHandler) ExportPDF(c *gin.Context) {
	file, err := h.exports.ProductsPDF(c.Request.Context())
	h.sendFile(c, file, err)
}
