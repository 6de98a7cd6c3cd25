package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, "update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, h.logger, "list products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SimilarProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := h.productService.SimilarProducts(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, h.logger, "get similar products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetStock(c *gin.Context) {
	stock, err := h.productService.GetStock(c.Request.Context(), c.Param("id"), c.Query("color"), c.Query("size"))
	if err != nil {
		writeError(c, h.logger, "get stock", err)
		return
	}

	c.JSON(http.StatusOK, stock)
}

func (h *ProductHandler) ProvisionStock(c *gin.Context) {
	var req domain.ProvisionStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	stock, err := h.productService.ProvisionStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, "provision stock", err)
		return
	}

	c.JSON(http.StatusOK, stock)
}
