package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/app"
	"github.com/talkincode/pharmadesk/internal/gateway"
	"github.com/talkincode/pharmadesk/internal/screen"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

const (
	sessionName  = "pharmadesk"
	workspaceKey = "workspace"
	appCtxKey    = "appctx"
)

// Response is the envelope of every api response.
type Response struct {
	Code    string          `json:"code"`
	Msg     string          `json:"msg"`
	Data    interface{}     `json:"data,omitempty"`
	Notices []screen.Notice `json:"notices"`
}

// Init registers every console route on the web server.
func Init(appCtx app.AppContext) {
	webserver.Use(contextMiddleware(appCtx), workspaceMiddleware(appCtx.Workspaces()))
	registerShellRoutes()
	registerDashboardRoutes()
	registerMedicineRoutes()
	registerSaleRoutes()
	registerInventoryRoutes()
	registerVendorRoutes()
	registerSettingsRoutes()
}

func contextMiddleware(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appCtxKey, appCtx)
			return next(c)
		}
	}
}

// workspaceMiddleware binds the session cookie to a workspace, issuing a
// new one when the cookie is missing or its workspace was reaped.
func workspaceMiddleware(reg *shell.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(sessionName, c)
			if sess == nil {
				return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Session unavailable", err)
			}
			id, _ := sess.Values[workspaceKey].(string)
			w := reg.Open(id)
			if w.ID != id {
				sess.Values[workspaceKey] = w.ID
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					zap.L().Warn("save session failed", zap.String("namespace", "adminapi"), zap.Error(err))
				}
			}
			c.Set(workspaceKey, w)
			return next(c)
		}
	}
}

// GetApp returns the application context bound to the request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appCtxKey).(app.AppContext)
}

// GetWorkspace returns the session's workspace.
func GetWorkspace(c echo.Context) *shell.Workspace {
	return c.Get(workspaceKey).(*shell.Workspace)
}

func drainNotices(c echo.Context) []screen.Notice {
	if w, ok := c.Get(workspaceKey).(*shell.Workspace); ok {
		return w.Notices().Drain()
	}
	return []screen.Notice{}
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Data: data, Notices: drainNotices(c)})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	if err, isErr := detail.(error); isErr && err != nil {
		zap.L().Debug("request rejected",
			zap.String("namespace", "adminapi"),
			zap.String("code", code),
			zap.Error(err))
	}
	return c.JSON(status, Response{Code: code, Msg: msg, Notices: drainNotices(c)})
}

// screenFail reports an error returned by a screen operation. The screen
// already raised the matching notice.
func screenFail(c echo.Context, err error, fallback string) error {
	msg := screen.Flatten(err, fallback)
	var ve *screen.ValidationError
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &ve):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", msg, err)
	case screen.IsUserError(err):
		return fail(c, http.StatusConflict, "REJECTED", msg, err)
	case errors.As(err, &gwErr) && gwErr.NotFound():
		return fail(c, http.StatusNotFound, "NOT_FOUND", msg, err)
	case errors.As(err, &gwErr):
		return fail(c, http.StatusBadGateway, "GATEWAY_ERROR", msg, err)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg, err)
	}
}

func handleValidationError(c echo.Context, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", screen.FieldError(fieldErrs[0]).Message, err)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// refreshRequested reports ?refresh=1 (or true) on a read.
func refreshRequested(c echo.Context) bool {
	v, _ := strconv.ParseBool(c.QueryParam("refresh"))
	return v
}
