package catalog

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceVendors = "catalog:vendors"

// VendorSource is the gateway surface for vendors.
type VendorSource interface {
	Vendors(ctx context.Context) ([]domain.Vendor, error)
	CreateVendor(ctx context.Context, v domain.VendorCreate) (domain.VendorCreated, error)
}

// VendorBook holds one screen's copy of the vendor list.
type VendorBook struct {
	src     VendorSource
	scope   *screen.Scope
	notices *screen.Notices

	mu      sync.Mutex
	vendors []domain.Vendor
}

func NewVendorBook(src VendorSource, scope *screen.Scope, notices *screen.Notices) *VendorBook {
	return &VendorBook{src: src, scope: scope, notices: notices}
}

func (b *VendorBook) Refresh() error {
	ctx, ticket := b.scope.Begin(resourceVendors)
	vendors, err := b.src.Vendors(ctx)
	if err != nil {
		if b.scope.Latest(ticket) {
			b.notices.Fail(err, "Failed to fetch vendors")
		}
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scope.Latest(ticket) {
		b.vendors = vendors
	}
	return nil
}

func (b *VendorBook) Vendors() []domain.Vendor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Vendor{}, b.vendors...)
}

// Find looks a vendor up in the loaded list.
func (b *VendorBook) Find(id int64) (domain.Vendor, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.vendors {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Vendor{}, false
}

// Create registers a vendor and refetches the list.
func (b *VendorBook) Create(v domain.VendorCreate) (domain.VendorCreated, error) {
	v.Name = strings.TrimSpace(v.Name)
	v.Contact = strings.TrimSpace(v.Contact)
	v.Address = strings.TrimSpace(v.Address)
	meds := v.Medicines[:0:0]
	for _, m := range v.Medicines {
		if m = strings.TrimSpace(m); m != "" {
			meds = append(meds, m)
		}
	}
	v.Medicines = meds

	if err := screen.Validate(v); err != nil {
		b.notices.Fail(err, "")
		return domain.VendorCreated{}, err
	}
	created, err := b.src.CreateVendor(b.scope.Context(), v)
	if err != nil {
		b.notices.Fail(err, "Failed to add vendor")
		return domain.VendorCreated{}, err
	}
	zap.L().Info("vendor created",
		zap.String("namespace", "catalog"),
		zap.Int64("vendor_id", created.VendorID),
		zap.Int("medicines", len(v.Medicines)))
	b.notices.Success("Vendor added")
	_ = b.Refresh()
	return created, nil
}
