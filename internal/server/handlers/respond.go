package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docelar/docelar/internal/service/agenda"
	"github.com/docelar/docelar/internal/service/catalog"
	"github.com/docelar/docelar/internal/service/finance"
	"github.com/docelar/docelar/internal/service/pos"
	"github.com/docelar/docelar/internal/service/team"
	"github.com/docelar/docelar/internal/sync"
)

// respondError maps domain errors onto HTTP statuses. Validation failures are
// client errors; anything unknown is a gateway-side failure.
func respondError(c *gin.Context, err error) {
	switch {
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isNoSession(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, team.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case isValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, agenda.ErrNotFound) ||
		errors.Is(err, finance.ErrNotFound) ||
		errors.Is(err, team.ErrNotFound) ||
		errors.Is(err, pos.ErrProductNotFound) ||
		errors.Is(err, pos.ErrCustomerNotFound)
}

func isNoSession(err error) bool {
	return errors.Is(err, pos.ErrNoSession) ||
		errors.Is(err, catalog.ErrNoSession) ||
		errors.Is(err, agenda.ErrNoSession) ||
		errors.Is(err, finance.ErrNoSession) ||
		errors.Is(err, team.ErrNoSession) ||
		errors.Is(err, sync.ErrNoSession)
}

func isValidation(err error) bool {
	return errors.Is(err, pos.ErrInvalidQuantity) ||
		errors.Is(err, pos.ErrInsufficientStock) ||
		errors.Is(err, pos.ErrMissingIngredient) ||
		errors.Is(err, catalog.ErrInvalidInput) ||
		errors.Is(err, agenda.ErrInvalidInput) ||
		errors.Is(err, finance.ErrInvalidInput) ||
		errors.Is(err, team.ErrInvalidInput)
}
