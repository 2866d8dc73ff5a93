package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/service/team"
	"github.com/docelar/docelar/internal/store"
)

// TeamHandler exposes collaborator management.
type TeamHandler struct {
	svc    *team.Service
	store  *store.Store
	logger *zap.Logger
}

// NewTeamHandler constructs the HTTP handler adapter.
func NewTeamHandler(svc *team.Service, st *store.Store, logger *zap.Logger) *TeamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamHandler{svc: svc, store: st, logger: logger}
}

// List returns the collaborator collection.
func (h *TeamHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot().Collaborators)
}

// Add provisions a collaborator remotely and records it locally.
func (h *TeamHandler) Add(c *gin.Context) {
	var in team.AddInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	collaborator, err := h.svc.Add(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collaborator)
}

// Update edits a collaborator's role or commission rate.
func (h *TeamHandler) Update(c *gin.Context) {
	var in team.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	collaborator, err := h.svc.Update(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborator)
}

// Remove deletes the local collaborator record.
func (h *TeamHandler) Remove(c *gin.Context) {
	if err := h.svc.Remove(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
