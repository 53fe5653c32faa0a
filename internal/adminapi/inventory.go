package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/inventory"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

type composerVendorPayload struct {
	VendorID int64 `json:"vendor_id"`
}

type composerLinePayload struct {
	MedicineID int64 `json:"medicine_id" validate:"required"`
	Quantity   *int  `json:"quantity" validate:"required"`
}

type composerQuantityPayload struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func registerInventoryRoutes() {
	webserver.ApiGET("/inventory/orders", listOrders)
	webserver.ApiGET("/inventory/orders/:id/lines", getOrderLines)
	webserver.ApiPATCH("/inventory/orders/:id/status", changeOrderStatus)
	webserver.ApiPOST("/inventory/orders/:id/edit", editOrder)

	webserver.ApiGET("/inventory/composer", getComposer)
	webserver.ApiPOST("/inventory/composer", openComposer)
	webserver.ApiDELETE("/inventory/composer", cancelComposer)
	webserver.ApiPUT("/inventory/composer/vendor", selectComposerVendor)
	webserver.ApiPOST("/inventory/composer/lines", addComposerLine)
	webserver.ApiPUT("/inventory/composer/lines/:index", editComposerLine)
	webserver.ApiPOST("/inventory/composer/submit", submitComposer)
}

func inventoryScreen(c echo.Context) (*inventory.Screen, error) {
	return shell.Ensure[*inventory.Screen](GetWorkspace(c), shell.ScreenInventory)
}

func listOrders(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if refreshRequested(c) {
		_ = s.Orders.Refresh()
	}
	return ok(c, s.View())
}

func getOrderLines(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	lines, err := s.Orders.Lines(id)
	if err != nil {
		return screenFail(c, err, "Order not found")
	}
	return ok(c, lines)
}

func changeOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Orders.ChangeStatus(id, domain.OrderStatus(payload.Status)); err != nil {
		return screenFail(c, err, "Failed to update order status")
	}
	return ok(c, s.View())
}

func editOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.EditOrder(id); err != nil {
		return screenFail(c, err, "Failed to edit order")
	}
	return ok(c, s.Composer.State())
}

func getComposer(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	return ok(c, s.Composer.State())
}

func openComposer(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Composer.Open(); err != nil {
		return screenFail(c, err, "Failed to open order form")
	}
	return ok(c, s.Composer.State())
}

func cancelComposer(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Composer.Cancel(); err != nil {
		return screenFail(c, err, "Failed to close order form")
	}
	return ok(c, s.Composer.State())
}

func selectComposerVendor(c echo.Context) error {
	var payload composerVendorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Composer.SelectVendor(payload.VendorID); err != nil {
		return screenFail(c, err, "Failed to fetch vendor medicines")
	}
	return ok(c, s.Composer.State())
}

func addComposerLine(c echo.Context) error {
	var payload composerLinePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Composer.AddLineItem(payload.MedicineID, *payload.Quantity); err != nil {
		return screenFail(c, err, "Failed to add medicine")
	}
	return ok(c, s.Composer.State())
}

func editComposerLine(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid line index", nil)
	}
	var payload composerQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if err := s.Composer.EditLineItemQuantity(index, *payload.Quantity); err != nil {
		return screenFail(c, err, "Failed to update quantity")
	}
	return ok(c, s.Composer.State())
}

func submitComposer(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch orders")
	}
	if _, err := s.SubmitOrder(); err != nil {
		return screenFail(c, err, "Failed to save order")
	}
	return ok(c, s.View())
}
