// registry.go - Registry fixtures for testing
package testutil

import (
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// LengthHasher maps every string to its length, so all strings of equal
// length collide.
func LengthHasher(s string) intern.ID {
	return intern.ID(len(s))
}

// MapHasher returns a hasher that uses ids for the strings it lists and the
// default hasher for everything else.
func MapHasher(ids map[string]intern.ID) intern.Hasher {
	fallback, _ := intern.HasherByName(intern.DefaultHasher)
	return func(s string) intern.ID {
		if id, ok := ids[s]; ok {
			return id
		}
		return fallback(s)
	}
}

// NewRegistry creates a registry whose log output is captured by the
// returned hook instead of being printed.
func NewRegistry(opts ...intern.Option) (*intern.Registry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]intern.Option{intern.WithLogger(logger)}, opts...)
	return intern.NewRegistry(opts...), hook
}

// NewContext builds an echo context around a recorded request.
func NewContext(e *echo.Echo, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
