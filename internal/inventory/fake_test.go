package inventory

import (
	"context"
	"sync"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/gateway"
)

type fakeGateway struct {
	mu              sync.Mutex
	vendors         []domain.Vendor
	vendorMedicines map[int64][]domain.VendorMedicine
	orders          []domain.Order
	created         []domain.OrderCreate
	updated         map[int64]domain.OrderUpdate
	patched         []domain.StatusPatch
	failWrites      bool
	patchGate       chan struct{}
	createGate      chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		vendorMedicines: make(map[int64][]domain.VendorMedicine),
		updated:         make(map[int64]domain.OrderUpdate),
	}
}

func (f *fakeGateway) writeErr(op string) error {
	if f.failWrites {
		return &gateway.Error{Op: op, Status: 500}
	}
	return nil
}

func (f *fakeGateway) VendorMedicines(ctx context.Context, vendorID int64) ([]domain.VendorMedicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.VendorMedicine(nil), f.vendorMedicines[vendorID]...), nil
}

func (f *fakeGateway) CreateOrder(ctx context.Context, o domain.OrderCreate) (domain.Order, error) {
	if f.createGate != nil {
		<-f.createGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr("create_order"); err != nil {
		return domain.Order{}, err
	}
	f.created = append(f.created, o)
	order := domain.Order{ID: int64(len(f.orders) + 1), VendorID: o.VendorID, Status: o.Status}
	for _, l := range o.Medicines {
		order.Medicines = append(order.Medicines, domain.OrderMedicine{ID: l.MedicineID, Quantity: l.Quantity})
	}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeGateway) UpdateOrder(ctx context.Context, id int64, o domain.OrderUpdate) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr("update_order"); err != nil {
		return domain.Order{}, err
	}
	f.updated[id] = o
	return domain.Order{ID: id, VendorID: o.VendorID}, nil
}

func (f *fakeGateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeGateway) PatchOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if f.patchGate != nil {
		<-f.patchGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr("patch_order_status"); err != nil {
		return err
	}
	f.patched = append(f.patched, domain.StatusPatch{Status: status})
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeGateway) Vendors(ctx context.Context) ([]domain.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Vendor(nil), f.vendors...), nil
}

func (f *fakeGateway) CreateVendor(ctx context.Context, v domain.VendorCreate) (domain.VendorCreated, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.vendors) + 1)
	f.vendors = append(f.vendors, domain.Vendor{ID: id, Name: v.Name})
	return domain.VendorCreated{VendorID: id}, nil
}
