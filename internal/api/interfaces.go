// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/plc-visualizer/strintern/internal/intern"
)

// RegistrySource returns the registry a request should operate on. Servers
// pass intern.Default so handlers follow teardown and re-creation.
type RegistrySource func() *intern.Registry

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// InternHandler handles registry queries and mutations
type InternHandler interface {
	HandleStats(c echo.Context) error
	HandleSnapshot(c echo.Context) error
	HandleSnapshotMsgpack(c echo.Context) error
	HandleIntern(c echo.Context) error
	HandleResolve(c echo.Context) error
	HandleInterned(c echo.Context) error
}

// FeedHandler streams newly interned entries
type FeedHandler interface {
	HandleFeed(c echo.Context) error
}
