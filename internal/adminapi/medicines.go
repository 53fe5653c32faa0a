package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/talkincode/pharmadesk/internal/catalog"
	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/shell"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

type medicineFormOpen struct {
	ID string `json:"id"`
}

type medicinePayload struct {
	Name         string           `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Quantity     *int             `json:"quantity"`
	Manufacturer string           `json:"manufacturer"`
}

// registerMedicineRoutes registers the catalog screen routes
func registerMedicineRoutes() {
	webserver.ApiGET("/medicines", listMedicines)
	webserver.ApiGET("/medicines/export", exportMedicines)
	webserver.ApiPOST("/medicines/form", openMedicineForm)
	webserver.ApiDELETE("/medicines/form", cancelMedicineForm)
	webserver.ApiPOST("/medicines/form/submit", submitMedicineForm)
	webserver.ApiDELETE("/medicines/:id", deleteMedicine)
}

func catalogScreen(c echo.Context) (*catalog.Store, error) {
	return shell.Ensure[*catalog.Store](GetWorkspace(c), shell.ScreenMedicines)
}

func listMedicines(c echo.Context) error {
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if refreshRequested(c) {
		_ = s.Refresh()
	}
	return ok(c, s.View())
}

func exportMedicines(c echo.Context) error {
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	var buf bytes.Buffer
	if err := s.ExportCSV(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export medicines", err)
	}
	filename := fmt.Sprintf("medicines-%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func openMedicineForm(c echo.Context) error {
	var payload medicineFormOpen
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if payload.ID == "" {
		return ok(c, s.BeginCreate())
	}
	form, err := s.BeginEdit(payload.ID)
	if err != nil {
		return screenFail(c, err, "Medicine not found")
	}
	return ok(c, form)
}

func cancelMedicineForm(c echo.Context) error {
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	s.CancelForm()
	return ok(c, s.View())
}

func submitMedicineForm(c echo.Context) error {
	var payload medicinePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	err = s.Submit(domain.MedicineForm{
		Name:         payload.Name,
		Price:        payload.Price,
		Quantity:     payload.Quantity,
		Manufacturer: payload.Manufacturer,
	})
	if err != nil {
		return screenFail(c, err, "Failed to save medicine")
	}
	return ok(c, s.View())
}

func deleteMedicine(c echo.Context) error {
	s, err := catalogScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch medicines")
	}
	if err := s.Delete(c.Param("id")); err != nil {
		return screenFail(c, err, "Failed to delete medicine")
	}
	return ok(c, s.View())
}
