package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/catalog"
	"github.com/talkincode/pharmadesk/internal/dashboard"
	"github.com/talkincode/pharmadesk/internal/inventory"
	"github.com/talkincode/pharmadesk/internal/sale"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

type shellView struct {
	Workspace string          `json:"workspace"`
	Nav       []shell.NavItem `json:"nav"`
	Active    string          `json:"active,omitempty"`
	View      interface{}     `json:"view,omitempty"`
}

func registerShellRoutes() {
	webserver.ApiGET("/shell", getShell)
	webserver.ApiPOST("/shell/:screen", mountScreen)
}

func viewOf(s shell.Screen) interface{} {
	switch v := s.(type) {
	case *dashboard.Screen:
		return v.View()
	case *catalog.Store:
		return v.View()
	case *sale.Cart:
		return v.View()
	case *inventory.Screen:
		return v.View()
	case *shell.Static:
		return v.View()
	}
	return nil
}

func shellOf(w *shell.Workspace, withView bool) shellView {
	out := shellView{Workspace: w.ID, Nav: w.Nav()}
	if s := w.Active(); s != nil {
		out.Active = s.Name()
		if withView {
			out.View = viewOf(s)
		}
	}
	return out
}

func getShell(c echo.Context) error {
	return ok(c, shellOf(GetWorkspace(c), false))
}

func mountScreen(c echo.Context) error {
	w := GetWorkspace(c)
	if _, err := w.Mount(c.Param("screen")); err != nil {
		return fail(c, http.StatusNotFound, "SCREEN_NOT_FOUND", "Unknown screen", err)
	}
	return ok(c, shellOf(w, true))
}
