package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/sale"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

type saleLinePayload struct {
	MedicineID string `json:"medicine_id"`
}

type saleQuantityPayload struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func registerSaleRoutes() {
	webserver.ApiGET("/sale", getSale)
	webserver.ApiPOST("/sale/lines", addSaleLine)
	webserver.ApiPUT("/sale/lines/:id", setSaleQuantity)
	webserver.ApiDELETE("/sale/lines/:id", removeSaleLine)
	webserver.ApiPOST("/sale/confirm", confirmSale)
}

func saleScreen(c echo.Context) (*sale.Cart, error) {
	return shell.Ensure[*sale.Cart](GetWorkspace(c), shell.ScreenSale)
}

func getSale(c echo.Context) error {
	cart, err := saleScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if refreshRequested(c) {
		_ = cart.Refresh()
	}
	return ok(c, cart.View())
}

func addSaleLine(c echo.Context) error {
	var payload saleLinePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	cart, err := saleScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if err := cart.AddMedicine(payload.MedicineID); err != nil {
		return screenFail(c, err, "Failed to add medicine")
	}
	return ok(c, cart.View())
}

func setSaleQuantity(c echo.Context) error {
	var payload saleQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	cart, err := saleScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if _, err := cart.SetQuantity(c.Param("id"), *payload.Quantity); err != nil {
		return screenFail(c, err, "Failed to update quantity")
	}
	return ok(c, cart.View())
}

func removeSaleLine(c echo.Context) error {
	cart, err := saleScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if err := cart.Remove(c.Param("id")); err != nil {
		return screenFail(c, err, "Failed to remove medicine")
	}
	return ok(c, cart.View())
}

func confirmSale(c echo.Context) error {
	cart, err := saleScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if err := cart.ConfirmSale(); err != nil {
		return screenFail(c, err, "Failed to confirm sale")
	}
	return ok(c, cart.View())
}
