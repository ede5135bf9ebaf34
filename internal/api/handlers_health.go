// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	source  RegistrySource
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, source RegistrySource) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		source:  source,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	r := h.source()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"instance": r.InstanceID().String(),
		"entries":  r.Len(),
	})
}
