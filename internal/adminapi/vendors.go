package adminapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/webserver"
)

type vendorPayload struct {
	Name      string   `json:"name"`
	Contact   string   `json:"contact"`
	Address   string   `json:"address"`
	Medicines []string `json:"medicines"`
}

type vendorList struct {
	Vendors       []domain.Vendor `json:"vendors"`
	// catalog names offered by the add-vendor form
	MedicineNames []string        `json:"medicine_names"`
}

// registerVendorRoutes registers vendor routes of the inventory screen
func registerVendorRoutes() {
	webserver.ApiGET("/inventory/vendors", listVendors)
	webserver.ApiPOST("/inventory/vendors", createVendor)
}

func medicineNames(c echo.Context) []string {
	meds, err := GetApp(c).Catalog().Medicines(c.Request().Context())
	if err != nil {
		return []string{}
	}
	seen := make(map[string]bool, len(meds))
	names := make([]string, 0, len(meds))
	for _, m := range meds {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	sort.Strings(names)
	return names
}

func listVendors(c echo.Context) error {
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch vendors")
	}
	if refreshRequested(c) {
		_ = s.Vendors.Refresh()
	}
	return ok(c, vendorList{Vendors: s.Vendors.Vendors(), MedicineNames: medicineNames(c)})
}

func createVendor(c echo.Context) error {
	var payload vendorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request parameters", err)
	}
	s, err := inventoryScreen(c)
	if err != nil {
		return screenFail(c, err, "Failed to fetch vendors")
	}
	created, err := s.Vendors.Create(domain.VendorCreate{
		Name:      payload.Name,
		Contact:   payload.Contact,
		Address:   payload.Address,
		Medicines: payload.Medicines,
	})
	if err != nil {
		return screenFail(c, err, "Failed to add vendor")
	}
	return ok(c, created)
}
