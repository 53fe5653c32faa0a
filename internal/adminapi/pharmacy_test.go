package adminapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/talkincode/pharmadesk/internal/domain"
)

// fakePharmacy is an in-memory stand-in for the remote pharmacy API.
type fakePharmacy struct {
	mu        sync.Mutex
	medicines []domain.Medicine
	vendors   []domain.Vendor
	supplied  map[int64][]domain.VendorMedicine
	orders    []map[string]interface{}
	sales     []domain.SaleCreate
	nextID    int
	failPaths map[string]int
}

func newFakePharmacy() *fakePharmacy {
	return &fakePharmacy{
		medicines: []domain.Medicine{
			{ID: "m1", Name: "Paracetamol", Price: decimal.RequireFromString("2.50"), Quantity: 5, Manufacturer: "Acme"},
			{ID: "m2", Name: "Ibuprofen", Price: decimal.RequireFromString("4.00"), Quantity: 40, Manufacturer: "Zenith"},
		},
		vendors: []domain.Vendor{
			{ID: 1, Name: "MedSupply", Contact: "555-0100", Medicines: []string{"Paracetamol", "Ibuprofen"}},
		},
		supplied: map[int64][]domain.VendorMedicine{
			1: {{ID: 11, Name: "Paracetamol"}, {ID: 12, Name: "Ibuprofen"}},
		},
		orders: []map[string]interface{}{
			{
				"id": 1, "vendor_id": 1, "vendor_name": "MedSupply", "order_date": "2024-05-01",
				"status": "in_progress", "medicines": []map[string]interface{}{{"id": 11, "name": "Paracetamol", "quantity": 3}},
			},
		},
		nextID:    100,
		failPaths: map[string]int{},
	}
}

// failWith makes "METHOD path" answer status with a detail body.
func (p *fakePharmacy) failWith(method, path string, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failPaths[method+" "+path] = status
}

func (p *fakePharmacy) recordedSales() []domain.SaleCreate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.SaleCreate(nil), p.sales...)
}

func (p *fakePharmacy) order(id int64) map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.orders {
		if cast64(o["id"]) == id {
			return o
		}
	}
	return nil
}

func cast64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func (p *fakePharmacy) reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (p *fakePharmacy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.failPaths[r.Method+" "+r.URL.Path]; ok {
		p.reply(w, status, map[string]string{"detail": "rejected upstream"})
		return
	}
	body, _ := io.ReadAll(r.Body)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case parts[0] == "medicines" && len(parts) == 1 && r.Method == http.MethodGet:
		p.reply(w, http.StatusOK, p.medicines)
	case parts[0] == "medicines" && len(parts) == 1 && r.Method == http.MethodPost:
		var form domain.MedicineForm
		_ = json.Unmarshal(body, &form)
		p.nextID++
		m := domain.Medicine{
			ID: "m" + strconv.Itoa(p.nextID), Name: form.Name, Price: *form.Price,
			Quantity: *form.Quantity, Manufacturer: form.Manufacturer,
		}
		p.medicines = append(p.medicines, m)
		p.reply(w, http.StatusCreated, m)
	case parts[0] == "medicines" && len(parts) == 2 && r.Method == http.MethodDelete:
		for i, m := range p.medicines {
			if m.ID == parts[1] {
				p.medicines = append(p.medicines[:i], p.medicines[i+1:]...)
				p.reply(w, http.StatusNoContent, nil)
				return
			}
		}
		p.reply(w, http.StatusNotFound, map[string]string{"detail": "Medicine not found"})
	case parts[0] == "sales" && r.Method == http.MethodPost:
		var sale domain.SaleCreate
		_ = json.Unmarshal(body, &sale)
		p.sales = append(p.sales, sale)
		p.reply(w, http.StatusCreated, map[string]string{"message": "ok"})
	case parts[0] == "sales" && r.Method == http.MethodGet:
		p.reply(w, http.StatusOK, []interface{}{})
	case len(parts) == 2 && parts[1] == "vendors" && r.Method == http.MethodGet:
		p.reply(w, http.StatusOK, p.vendors)
	case len(parts) == 2 && parts[1] == "vendors" && r.Method == http.MethodPost:
		var v domain.VendorCreate
		_ = json.Unmarshal(body, &v)
		p.nextID++
		p.vendors = append(p.vendors, domain.Vendor{ID: int64(p.nextID), Name: v.Name, Contact: v.Contact, Medicines: v.Medicines})
		p.reply(w, http.StatusCreated, domain.VendorCreated{VendorID: int64(p.nextID), Message: "created"})
	case len(parts) == 4 && parts[1] == "vendors" && parts[3] == "medicines":
		id, _ := strconv.ParseInt(parts[2], 10, 64)
		p.reply(w, http.StatusOK, p.supplied[id])
	case len(parts) == 2 && parts[1] == "orders" && r.Method == http.MethodGet:
		p.reply(w, http.StatusOK, p.orders)
	case len(parts) == 2 && parts[1] == "orders" && r.Method == http.MethodPost:
		var o domain.OrderCreate
		_ = json.Unmarshal(body, &o)
		p.nextID++
		order := map[string]interface{}{
			"id": p.nextID, "vendor_id": o.VendorID, "vendor_name": "MedSupply",
			"order_date": o.OrderDate, "status": string(o.Status), "medicines": o.Medicines,
		}
		p.orders = append(p.orders, order)
		p.reply(w, http.StatusCreated, order)
	case len(parts) == 4 && parts[1] == "orders" && parts[3] == "status" && r.Method == http.MethodPatch:
		var patch domain.StatusPatch
		_ = json.Unmarshal(body, &patch)
		id, _ := strconv.ParseInt(parts[2], 10, 64)
		for _, o := range p.orders {
			if cast64(o["id"]) == id {
				o["status"] = string(patch.Status)
				p.reply(w, http.StatusOK, o)
				return
			}
		}
		p.reply(w, http.StatusNotFound, map[string]string{"detail": "Order not found"})
	default:
		p.reply(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
	}
}
