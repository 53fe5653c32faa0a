package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

// Event bus topics published after a write reached the gateway.
const (
	TopicMedicines = "catalog:medicines"
	TopicVendors   = "catalog:vendors"
	TopicOrders    = "inventory:orders"
	TopicSales     = "sale:sales"
)

const (
	keyMedicines      = "medicines"
	keyVendors        = "vendors"
	keyVendorMedicine = "vendor_medicines:"
)

// Backend is the gateway surface the cache fronts.
type Backend interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	CreateMedicine(ctx context.Context, form domain.MedicineForm) (domain.Medicine, error)
	UpdateMedicine(ctx context.Context, id string, form domain.MedicineForm) (domain.Medicine, error)
	DeleteMedicine(ctx context.Context, id string) error
	ConfirmSale(ctx context.Context, sale domain.SaleCreate) error
	ListSales(ctx context.Context) ([]domain.Sale, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	CreateVendor(ctx context.Context, v domain.VendorCreate) (domain.VendorCreated, error)
	VendorMedicines(ctx context.Context, vendorID int64) ([]domain.VendorMedicine, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, o domain.OrderCreate) (domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, o domain.OrderUpdate) (domain.Order, error)
	PatchOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache is the read-through cache shared by every workspace. Medicines,
// vendors and vendor medicine lists are cached for ttl; orders and sales
// always go to the gateway. Writes pass through and publish their topic,
// which drops the affected entries. A fill that started before an
// invalidation is discarded.
type Cache struct {
	backend Backend
	bus     EventBus.Bus
	ttl     time.Duration
	metrics *metrics.Registry
	now     func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
}

func New(backend Backend, bus EventBus.Bus, ttl time.Duration, reg *metrics.Registry) *Cache {
	c := &Cache{
		backend: backend,
		bus:     bus,
		ttl:     ttl,
		metrics: reg,
		now:     time.Now,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
	if bus != nil {
		_ = bus.Subscribe(TopicMedicines, c.dropMedicines)
		_ = bus.Subscribe(TopicVendors, c.dropVendors)
	}
	return c
}

// Close detaches the cache from the bus.
func (c *Cache) Close() {
	if c.bus == nil {
		return
	}
	_ = c.bus.Unsubscribe(TopicMedicines, c.dropMedicines)
	_ = c.bus.Unsubscribe(TopicVendors, c.dropVendors)
}

func (c *Cache) dropMedicines() {
	c.invalidate(keyMedicines)
}

func (c *Cache) dropVendors() {
	c.invalidate(keyVendors)
}

// invalidate drops family and bumps its generation. The vendors family
// covers every vendor medicine list.
func (c *Cache) invalidate(family string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[family]++
	for key := range c.entries {
		if familyOf(key) == family {
			delete(c.entries, key)
		}
	}
	zap.L().Debug("cache invalidated", zap.String("namespace", "cache"), zap.String("family", family))
}

func familyOf(key string) string {
	if strings.HasPrefix(key, keyVendorMedicine) {
		return keyVendors
	}
	return key
}

func (c *Cache) lookup(key string) (interface{}, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[familyOf(key)]
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, gen, false
	}
	return e.value, gen, true
}

func (c *Cache) store(key string, gen uint64, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[familyOf(key)] != gen {
		return
	}
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}

// get returns the cached value for key or loads it. Concurrent loads of
// the same key and generation share one gateway call, so a load issued
// after an invalidation never joins one started before it. A caller whose
// ctx ends stops waiting without cancelling the shared call.
func (c *Cache) get(ctx context.Context, key string, load func(context.Context) (interface{}, error)) (interface{}, error) {
	v, gen, ok := c.lookup(key)
	if ok {
		c.metrics.ObserveCache(familyOf(key), true)
		return v, nil
	}
	c.metrics.ObserveCache(familyOf(key), false)

	ch := c.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Medicines returns a private copy of the catalog.
func (c *Cache) Medicines(ctx context.Context) ([]domain.Medicine, error) {
	v, err := c.get(ctx, keyMedicines, func(ctx context.Context) (interface{}, error) {
		return c.backend.ListMedicines(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Medicine(nil), v.([]domain.Medicine)...), nil
}

func (c *Cache) Vendors(ctx context.Context) ([]domain.Vendor, error) {
	v, err := c.get(ctx, keyVendors, func(ctx context.Context) (interface{}, error) {
		return c.backend.ListVendors(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Vendor(nil), v.([]domain.Vendor)...), nil
}

func (c *Cache) VendorMedicines(ctx context.Context, vendorID int64) ([]domain.VendorMedicine, error) {
	key := fmt.Sprintf("%s%d", keyVendorMedicine, vendorID)
	v, err := c.get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.backend.VendorMedicines(ctx, vendorID)
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.VendorMedicine(nil), v.([]domain.VendorMedicine)...), nil
}

// Warm loads the catalog and vendor list ahead of the first screen.
func (c *Cache) Warm(ctx context.Context) error {
	if _, err := c.Medicines(ctx); err != nil {
		return err
	}
	_, err := c.Vendors(ctx)
	return err
}

func (c *Cache) publish(topics ...string) {
	if c.bus == nil {
		for _, t := range topics {
			switch t {
			case TopicMedicines:
				c.dropMedicines()
			case TopicVendors:
				c.dropVendors()
			}
		}
		return
	}
	for _, t := range topics {
		c.bus.Publish(t)
	}
}
