package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/dashboard"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
}

func getDashboard(c echo.Context) error {
	s, err := shell.Ensure[*dashboard.Screen](GetWorkspace(c), shell.ScreenDashboard)
	if err != nil {
		return screenFail(c, err, "Failed to load dashboard")
	}
	if refreshRequested(c) {
		_ = s.Refresh()
	}
	return ok(c, s.View())
}
