package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/pharmadesk/internal/cache"
	"github.com/talkincode/pharmadesk/internal/domain"
)

// Source feeds the dashboard.
type Source interface {
	ListSales(ctx context.Context) ([]domain.Sale, error)
	Medicines(ctx context.Context) ([]domain.Medicine, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

var boardTopics = []string{cache.TopicSales, cache.TopicMedicines, cache.TopicOrders}

// Board keeps the last computed snapshot, shared by every workspace. Any
// write to sales, medicines or orders drops it.
type Board struct {
	src Source
	bus EventBus.Bus
	now func() time.Time

	mu   sync.Mutex
	snap *Snapshot
	gen  uint64
}

func NewBoard(src Source, bus EventBus.Bus) *Board {
	b := &Board{src: src, bus: bus, now: time.Now}
	if bus != nil {
		for _, topic := range boardTopics {
			_ = bus.Subscribe(topic, b.Invalidate)
		}
	}
	return b
}

func (b *Board) Close() {
	if b.bus == nil {
		return
	}
	for _, topic := range boardTopics {
		_ = b.bus.Unsubscribe(topic, b.Invalidate)
	}
}

func (b *Board) Invalidate() {
	b.mu.Lock()
	b.snap = nil
	b.gen++
	b.mu.Unlock()
}

// Snapshot returns the cached charts or fetches sales, medicines and
// orders concurrently and computes them.
func (b *Board) Snapshot(ctx context.Context) (Snapshot, error) {
	b.mu.Lock()
	if b.snap != nil {
		snap := *b.snap
		b.mu.Unlock()
		return snap, nil
	}
	gen := b.gen
	b.mu.Unlock()

	var (
		sales     []domain.Sale
		medicines []domain.Medicine
		orders    []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = b.src.ListSales(gctx)
		return err
	})
	g.Go(func() (err error) {
		medicines, err = b.src.Medicines(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = b.src.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := Compute(sales, medicines, orders, b.now())
	b.mu.Lock()
	if b.gen == gen {
		b.snap = &snap
	}
	b.mu.Unlock()
	zap.L().Debug("dashboard computed",
		zap.String("namespace", "dashboard"),
		zap.Int("sales", len(sales)),
		zap.Int("medicines", len(medicines)),
		zap.Int("orders", len(orders)))
	return snap, nil
}
