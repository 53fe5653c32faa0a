package inventory

import (
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/pharmadesk/internal/catalog"
	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

// Source is everything the inventory screen reads and writes.
type Source interface {
	ComposerSource
	TableSource
	catalog.VendorSource
}

// View is the rendered inventory screen.
type View struct {
	Orders   []Row           `json:"orders"`
	Vendors  []domain.Vendor `json:"vendors"`
	Composer ComposerState   `json:"composer"`
	Statuses []StatusOption  `json:"statuses"`
}

type StatusOption struct {
	Value domain.OrderStatus `json:"value"`
	Label string             `json:"label"`
}

// Screen is the inventory screen: order table, order composer and the
// vendor list.
type Screen struct {
	Orders   *OrderTable
	Composer *Composer
	Vendors  *catalog.VendorBook

	scope *screen.Scope
}

func NewScreen(src Source, scope *screen.Scope, notices *screen.Notices) *Screen {
	return &Screen{
		Orders:   NewOrderTable(src, scope, notices),
		Composer: NewComposer(src, scope, notices),
		Vendors:  catalog.NewVendorBook(src, scope, notices),
		scope:    scope,
	}
}

func (s *Screen) Name() string {
	return "inventory"
}

// Refresh loads orders and vendors concurrently.
func (s *Screen) Refresh() error {
	var g errgroup.Group
	g.Go(s.Orders.Refresh)
	g.Go(s.Vendors.Refresh)
	return g.Wait()
}

func (s *Screen) Close() {
	s.scope.Close()
}

// EditOrder opens the composer on an editable order.
func (s *Screen) EditOrder(id int64) error {
	order, err := s.Orders.Edit(id)
	if err != nil {
		return err
	}
	return s.Composer.LoadExisting(order)
}

// SubmitOrder submits the composer and refreshes the table on success.
func (s *Screen) SubmitOrder() (domain.Order, error) {
	order, err := s.Composer.Submit()
	if err != nil {
		return order, err
	}
	_ = s.Orders.Refresh()
	return order, nil
}

func (s *Screen) View() View {
	v := View{
		Orders:   s.Orders.Rows(),
		Vendors:  s.Vendors.Vendors(),
		Composer: s.Composer.State(),
	}
	for _, st := range domain.OrderStatuses {
		v.Statuses = append(v.Statuses, StatusOption{Value: st, Label: st.Label()})
	}
	return v
}
