package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

const ApiPrefix = "/api/v1"

type AdminServer struct {
	root *echo.Echo
	api  *echo.Group
	cfg  *config.AppConfig
}

var server *AdminServer

// Init builds the process-wide server that the Api* helpers register on.
func Init(cfg *config.AppConfig, reg *metrics.Registry) *AdminServer {
	server = NewAdminServer(cfg, reg)
	return server
}

func NewAdminServer(cfg *config.AppConfig, reg *metrics.Registry) *AdminServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &jsonSerializer{}
	e.Validator = &requestValidator{}
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			zap.L().Error("handler panic",
				zap.String("namespace", "webserver"),
				zap.String("path", c.Path()),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(accessLog())

	store := sessions.NewCookieStore([]byte(cfg.Web.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Web.SessionIdle.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if reg != nil {
		e.GET("/metrics", echo.WrapHandler(reg.Handler()))
	}

	return &AdminServer{root: e, api: e.Group(ApiPrefix), cfg: cfg}
}

// Echo exposes the router, mainly for tests.
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Use adds middleware to the api group.
func (s *AdminServer) Use(m ...echo.MiddlewareFunc) {
	s.api.Use(m...)
}

func (s *AdminServer) Start() error {
	addr := s.cfg.WebListenAddr()
	zap.S().Infof("Pharmadesk console listening on %s", addr)
	err := s.root.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *AdminServer) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.root.Shutdown(ctx)
}

func Use(m ...echo.MiddlewareFunc) {
	server.Use(m...)
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PATCH(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}
