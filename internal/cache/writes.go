package cache

import (
	"context"

	"github.com/talkincode/pharmadesk/internal/domain"
)

// Writes always publish, even on failure: a timed out call may still have
// been applied by the gateway.

func (c *Cache) CreateMedicine(ctx context.Context, form domain.MedicineForm) (domain.Medicine, error) {
	defer c.publish(TopicMedicines)
	return c.backend.CreateMedicine(ctx, form)
}

func (c *Cache) UpdateMedicine(ctx context.Context, id string, form domain.MedicineForm) (domain.Medicine, error) {
	defer c.publish(TopicMedicines)
	return c.backend.UpdateMedicine(ctx, id, form)
}

func (c *Cache) DeleteMedicine(ctx context.Context, id string) error {
	defer c.publish(TopicMedicines)
	return c.backend.DeleteMedicine(ctx, id)
}

// ConfirmSale changes stock as well as the sales ledger.
func (c *Cache) ConfirmSale(ctx context.Context, sale domain.SaleCreate) error {
	defer c.publish(TopicMedicines, TopicSales)
	return c.backend.ConfirmSale(ctx, sale)
}

func (c *Cache) CreateVendor(ctx context.Context, v domain.VendorCreate) (domain.VendorCreated, error) {
	defer c.publish(TopicVendors)
	return c.backend.CreateVendor(ctx, v)
}

func (c *Cache) CreateOrder(ctx context.Context, o domain.OrderCreate) (domain.Order, error) {
	defer c.publish(TopicOrders)
	return c.backend.CreateOrder(ctx, o)
}

func (c *Cache) UpdateOrder(ctx context.Context, id int64, o domain.OrderUpdate) (domain.Order, error) {
	defer c.publish(TopicOrders)
	return c.backend.UpdateOrder(ctx, id, o)
}

func (c *Cache) PatchOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	defer c.publish(TopicOrders)
	return c.backend.PatchOrderStatus(ctx, id, status)
}

func (c *Cache) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return c.backend.ListOrders(ctx)
}

func (c *Cache) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return c.backend.ListSales(ctx)
}
