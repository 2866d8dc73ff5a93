package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/derive"
	"github.com/docelar/docelar/internal/service/catalog"
	"github.com/docelar/docelar/internal/store"
)

// CatalogHandler exposes the product and stock endpoints.
type CatalogHandler struct {
	svc    *catalog.Service
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(svc *catalog.Service, st *store.Store, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, store: st, logger: logger}
}

// ListProducts returns the product collection.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Products)
}

// CreateProduct adds a product.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, err := h.svc.CreateProduct(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct rewrites a product.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, err := h.svc.UpdateProduct(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SuggestPrice runs the pricing assistant for a product.
func (h *CatalogHandler) SuggestPrice(c *gin.Context) {
	quote, err := h.svc.SuggestPrice(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// ListStock returns the stock collection with each item's classification.
func (h *CatalogHandler) ListStock(c *gin.Context) {
	snapshot := h.store.Snapshot()

	type stockView struct {
		Item   any               `json:"item"`
		Status derive.StockLevel `json:"status"`
	}

	view := make([]stockView, 0, len(snapshot.Stock))
	for _, item := range snapshot.Stock {
		view = append(view, stockView{Item: item, Status: derive.StockStatus(item)})
	}
	c.JSON(http.StatusOK, view)
}

// StockAlerts returns only the critical and warning items.
func (h *CatalogHandler) StockAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, derive.StockAlerts(h.store.Snapshot()))
}

// CreateStockItem adds a raw material.
func (h *CatalogHandler) CreateStockItem(c *gin.Context) {
	var in catalog.StockItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item, err := h.svc.CreateStockItem(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateStockItem rewrites a raw material.
func (h *CatalogHandler) UpdateStockItem(c *gin.Context) {
	var in catalog.StockItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	item, err := h.svc.UpdateStockItem(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteStockItem removes a raw material.
func (h *CatalogHandler) DeleteStockItem(c *gin.Context) {
	if err := h.svc.DeleteStockItem(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
