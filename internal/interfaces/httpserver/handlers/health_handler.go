package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/domain/health"
)

// HealthHandler exposes the composite health probe.
type HealthHandler struct {
	service *health.Service
}

// NewHealthHandler wires dependencies for the health route.
func NewHealthHandler(service *health.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check handles GET /health. It always answers 200; degraded dependencies
// only show up in the sub-statuses.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Check(c.Request.Context()))
}
