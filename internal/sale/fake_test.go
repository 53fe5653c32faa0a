package sale

import (
	"context"
	"sync"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/gateway"
)

type fakeSource struct {
	mu        sync.Mutex
	medicines []domain.Medicine
	sales     []domain.SaleCreate
	fail      bool
}

func (f *fakeSource) Medicines(ctx context.Context) ([]domain.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Medicine(nil), f.medicines...), nil
}

func (f *fakeSource) ConfirmSale(ctx context.Context, sale domain.SaleCreate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return &gateway.Error{Op: "confirm_sale", Status: 400, Detail: "Insufficient stock"}
	}
	f.sales = append(f.sales, sale)
	return nil
}
