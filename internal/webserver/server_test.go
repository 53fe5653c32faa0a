package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

type pingPayload struct {
	Name string `json:"name" validate:"required"`
}

func newTestServer(t *testing.T) *AdminServer {
	t.Helper()
	cfg := *config.DefaultAppConfig
	s := Init(&cfg, metrics.NewRegistry())
	ApiPOST("/ping", func(c echo.Context) error {
		var p pingPayload
		if err := c.Bind(&p); err != nil {
			return err
		}
		if err := c.Validate(&p); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, map[string]string{"hello": p.Name})
	})
	ApiGET("/boom", func(c echo.Context) error {
		panic("boom")
	})
	return s
}

func serve(s *AdminServer, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestApiRoutesUseJSONAndValidator(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/api/v1/ping", `{"name":"pharmacy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hello":"pharmacy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(s, http.MethodPost, "/api/v1/ping", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"Bad Request"`)

	rec = serve(s, http.MethodPost, "/api/v1/ping", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanicIsRecovered(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, http.MethodGet, "/api/v1/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
