package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/service/finance"
	"github.com/docelar/docelar/internal/store"
)

// FinanceHandler exposes expenses and the report endpoints.
type FinanceHandler struct {
	svc    *finance.Service
	store  *store.Store
	logger *zap.Logger
}

// NewFinanceHandler constructs the HTTP handler adapter.
func NewFinanceHandler(svc *finance.Service, st *store.Store, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, store: st, logger: logger}
}

// ListExpenses returns the expense collection.
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Expenses)
}

// CreateExpense records an operating cost.
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var in finance.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	expense, err := h.svc.CreateExpense(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// DeleteExpense removes an expense.
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	if err := h.svc.DeleteExpense(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard returns the full derived summary for the current instant.
func (h *FinanceHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Dashboard())
}

// SellerPerformance ranks the current month's sales by seller.
func (h *FinanceHandler) SellerPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SellerPerformance())
}

// VIPCustomers lists the VIP customers of the current month.
func (h *FinanceHandler) VIPCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.MonthlyVIPs())
}
