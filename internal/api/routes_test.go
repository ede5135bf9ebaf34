package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/testutil"
)

func newRoutedEcho(t *testing.T, r *intern.Registry) *echo.Echo {
	t.Helper()
	source := func() *intern.Registry { return r }

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(intern.NewCollector("test", source)))

	e := echo.New()
	SetupMiddleware(e, MiddlewareOptions{BodyLimit: "1K"})
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Source:     source,
		FeedBuffer: 4,
		Version:    "test",
	}), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	r, _ := testutil.NewRegistry()
	e := newRoutedEcho(t, r)

	rec := serve(e, http.MethodPost, "/api/intern", `{"text":"Zone.1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	id := r.Hash("Zone.1")
	rec = serve(e, http.MethodGet, "/api/resolve/0x"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"Zone.1"`)

	rec = serve(e, http.MethodGet, "/api/interned?text=Zone.1", "")
	assert.Contains(t, rec.Body.String(), `"interned":true`)

	for _, path := range []string{"/api/health", "/api/stats", "/api/snapshot", "/api/snapshot/msgpack"} {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, path, "").Code, path)
	}

	rec = serve(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_intern_entries{hasher="xxhash"} 2`)
}

func TestRoutes_Errors(t *testing.T) {
	r, _ := testutil.NewRegistry()
	e := newRoutedEcho(t, r)

	rec := serve(e, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", decodeAPIError(t, rec.Body.String()).Code)

	big := `{"text":"` + strings.Repeat("x", 2048) + `"}`
	rec = serve(e, http.MethodPost, "/api/intern", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 1, r.Len())
}

func TestRoutes_NoMetrics(t *testing.T) {
	r, _ := testutil.NewRegistry()
	e := echo.New()
	RegisterRoutes(e, NewHandlers(&Dependencies{Source: func() *intern.Registry { return r }}), nil)

	assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/metrics", "").Code)
}
