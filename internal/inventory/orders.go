package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceOrders = "inventory:orders"

var (
	ErrUnknownOrder = screen.Reject("Order not found")
	ErrBadStatus    = screen.Reject("Unknown order status")
	ErrNotEditable  = screen.Reject("Only orders in progress or in transit can be edited")
)

// TableSource is the gateway surface of the order table.
type TableSource interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	PatchOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// Row is one rendered order.
type Row struct {
	ID          int64                  `json:"id"`
	VendorID    int64                  `json:"vendor_id"`
	VendorName  string                 `json:"vendor_name"`
	OrderDate   string                 `json:"order_date"`
	Status      domain.OrderStatus     `json:"status"`
	StatusLabel string                 `json:"status_label"`
	Editable    bool                   `json:"editable"`
	Pending     bool                   `json:"pending"`
	Medicines   []domain.OrderMedicine `json:"medicines,omitempty"`
}

// OrderTable lists orders and drives status changes. Any status may be
// chosen from any other; the backend owns transition rules.
type OrderTable struct {
	src     TableSource
	scope   *screen.Scope
	notices *screen.Notices

	mu      sync.Mutex
	orders  []domain.Order
	pending map[int64]domain.OrderStatus
}

func NewOrderTable(src TableSource, scope *screen.Scope, notices *screen.Notices) *OrderTable {
	return &OrderTable{src: src, scope: scope, notices: notices, pending: make(map[int64]domain.OrderStatus)}
}

func (t *OrderTable) Refresh() error {
	ctx, ticket := t.scope.Begin(resourceOrders)
	orders, err := t.src.ListOrders(ctx)
	if err != nil {
		if t.scope.Latest(ticket) {
			t.notices.Fail(err, "Failed to fetch orders")
		}
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.scope.Latest(ticket) {
		return nil
	}
	// a status change still in flight keeps its optimistic value
	for i := range orders {
		if s, ok := t.pending[orders[i].ID]; ok {
			orders[i].Status = s
		}
	}
	t.orders = orders
	return nil
}

func (t *OrderTable) index(id int64) int {
	for i := range t.orders {
		if t.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// Rows renders the table without line items.
func (t *OrderTable) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make([]Row, 0, len(t.orders))
	for _, o := range t.orders {
		_, pending := t.pending[o.ID]
		rows = append(rows, Row{
			ID:          o.ID,
			VendorID:    o.VendorID,
			VendorName:  o.VendorName,
			OrderDate:   o.OrderDate.Date(),
			Status:      o.Status,
			StatusLabel: o.Status.Label(),
			Editable:    o.Status.Editable(),
			Pending:     pending,
		})
	}
	return rows
}

// Lines expands one row into its read-only line items.
func (t *OrderTable) Lines(id int64) ([]domain.OrderMedicine, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		t.notices.Fail(ErrUnknownOrder, "")
		return nil, ErrUnknownOrder
	}
	return append([]domain.OrderMedicine{}, t.orders[i].Medicines...), nil
}

// ChangeStatus shows the new status at once and persists it. If the
// gateway rejects the change the row goes back to its prior status.
func (t *OrderTable) ChangeStatus(id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		t.notices.Fail(ErrBadStatus, "")
		return ErrBadStatus
	}
	t.mu.Lock()
	i := t.index(id)
	if i < 0 {
		t.mu.Unlock()
		t.notices.Fail(ErrUnknownOrder, "")
		return ErrUnknownOrder
	}
	prior := t.orders[i].Status
	t.orders[i].Status = status
	t.pending[id] = status
	t.mu.Unlock()

	err := t.src.PatchOrderStatus(t.scope.Context(), id, status)

	t.mu.Lock()
	if t.pending[id] == status {
		delete(t.pending, id)
		if err != nil {
			if j := t.index(id); j >= 0 && t.orders[j].Status == status {
				t.orders[j].Status = prior
			}
		}
	}
	t.mu.Unlock()

	if err != nil {
		t.notices.Fail(err, "Failed to update order status")
		return err
	}
	zap.L().Info("order status changed",
		zap.String("namespace", "inventory"),
		zap.Int64("order_id", id),
		zap.String("from", string(prior)),
		zap.String("to", string(status)))
	t.notices.Success("Order status updated")
	_ = t.Refresh()
	return nil
}

// Edit returns the order to load into the composer. Completed and
// received orders cannot be edited.
func (t *OrderTable) Edit(id int64) (domain.Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		t.notices.Fail(ErrUnknownOrder, "")
		return domain.Order{}, ErrUnknownOrder
	}
	o := t.orders[i]
	if !o.Status.Editable() {
		t.notices.Fail(ErrNotEditable, "")
		return domain.Order{}, ErrNotEditable
	}
	o.Medicines = append([]domain.OrderMedicine(nil), o.Medicines...)
	return o, nil
}
