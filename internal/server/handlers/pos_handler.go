package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/service/pos"
	"github.com/docelar/docelar/internal/store"
)

// POSHandler exposes checkout and production-run endpoints.
type POSHandler struct {
	svc    *pos.Service
	store  *store.Store
	logger *zap.Logger
}

// NewPOSHandler constructs the HTTP handler adapter.
func NewPOSHandler(svc *pos.Service, st *store.Store, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{svc: svc, store: st, logger: logger}
}

// Checkout records a counter sale.
func (h *POSHandler) Checkout(c *gin.Context) {
	var in pos.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	sale, err := h.svc.Checkout(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// Produce executes a production run.
func (h *POSHandler) Produce(c *gin.Context) {
	var in pos.ProduceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	run, err := h.svc.Produce(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

// ListSales returns the immutable sales history.
func (h *POSHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Sales)
}

// ListProductions returns the production history.
func (h *POSHandler) ListProductions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Productions)
}
