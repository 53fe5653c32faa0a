package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", getSettings)
}

func getSettings(c echo.Context) error {
	if _, err := shell.Ensure[*shell.Static](GetWorkspace(c), shell.ScreenSettings); err != nil {
		return screenFail(c, err, "Failed to load settings")
	}
	return ok(c, GetApp(c).Settings())
}
