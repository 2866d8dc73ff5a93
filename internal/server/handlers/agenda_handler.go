package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/service/agenda"
	"github.com/docelar/docelar/internal/store"
)

// AgendaHandler exposes order scheduling and the customer book.
type AgendaHandler struct {
	svc    *agenda.Service
	store  *store.Store
	logger *zap.Logger
}

// NewAgendaHandler constructs the HTTP handler adapter.
func NewAgendaHandler(svc *agenda.Service, st *store.Store, logger *zap.Logger) *AgendaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgendaHandler{svc: svc, store: st, logger: logger}
}

// ListOrders returns the order collection.
func (h *AgendaHandler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Orders)
}

// CreateOrder schedules a new order.
func (h *AgendaHandler) CreateOrder(c *gin.Context) {
	var in agenda.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	order, err := h.svc.CreateOrder(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ToggleOrder flips an order between pending and delivered.
func (h *AgendaHandler) ToggleOrder(c *gin.Context) {
	order, err := h.svc.ToggleOrderStatus(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order.
func (h *AgendaHandler) DeleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpcomingOrders lists pending orders due within ?days=N (default 7).
func (h *AgendaHandler) UpcomingOrders(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}
	c.JSON(http.StatusOK, h.svc.Upcoming(days))
}

// ListCustomers returns the customer book.
func (h *AgendaHandler) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Customers)
}

// CreateCustomer adds a customer.
func (h *AgendaHandler) CreateCustomer(c *gin.Context) {
	var in agenda.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customer, err := h.svc.CreateCustomer(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer rewrites a customer's contact fields.
func (h *AgendaHandler) UpdateCustomer(c *gin.Context) {
	var in agenda.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	customer, err := h.svc.UpdateCustomer(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer.
func (h *AgendaHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
