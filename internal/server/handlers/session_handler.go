package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/domain/models"
	"github.com/docelar/docelar/internal/sync"
)

// SessionHandler exposes login/logout hydration and the reconciliation
// status/retry endpoints.
type SessionHandler struct {
	svc    *sync.Service
	logger *zap.Logger
}

// NewSessionHandler constructs the HTTP handler adapter.
func NewSessionHandler(svc *sync.Service, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	UserID    string      `json:"userId" binding:"required"`
	CompanyID string      `json:"companyId" binding:"required"`
	Email     string      `json:"email" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
	Name      string      `json:"name"`
}

// Login hydrates the state document for the authenticated session supplied by
// the external authentication boundary.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session := models.Session{
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		Email:     req.Email,
		Role:      req.Role,
		Name:      req.Name,
	}

	if err := h.svc.Login(c.Request.Context(), session); err != nil {
		h.logger.Error("login hydration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hydrate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(h.svc.Status())})
}

// Logout persists and clears the state document.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Status reports the three-state reconciliation indicator.
func (h *SessionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": string(h.svc.Status())})
}

// Retry triggers a manual pull, independent of the debounce timer.
func (h *SessionHandler) Retry(c *gin.Context) {
	if err := h.svc.Pull(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(h.svc.Status())})
}
