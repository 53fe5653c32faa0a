package sale

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceMedicines = "sale:medicines"

var (
	ErrNoMedicine      = screen.Reject("Please select a medicine")
	ErrUnknownMedicine = screen.Reject("Medicine not found")
	ErrAlreadyInCart   = screen.Reject("Medicine already in cart")
	ErrOutOfStock      = screen.Reject("Medicine is out of stock")
	ErrNotInCart       = screen.Reject("Medicine is not in the cart")
	ErrEmptyCart       = screen.Reject("Cart is empty")
	ErrSubmitting      = screen.Reject("Sale is being submitted")
)

// Source is what the cart needs from the gateway.
type Source interface {
	Medicines(ctx context.Context) ([]domain.Medicine, error)
	ConfirmSale(ctx context.Context, sale domain.SaleCreate) error
}

// Line is one cart entry. It carries the medicine reference together with
// the display fields recorded when the medicine was added.
type Line struct {
	MedicineID string          `json:"medicine_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Stock      int             `json:"stock"`
	Quantity   int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Quantity int             `json:"total_quantity"`
	Price    decimal.Decimal `json:"total_price"`
}

// View is the rendered cart screen.
type View struct {
	Medicines  []domain.Medicine `json:"medicines"`
	Lines      []ViewLine        `json:"lines"`
	Totals     Totals            `json:"totals"`
	Submitting bool              `json:"submitting"`
}

type ViewLine struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the point-of-sale screen.
type Cart struct {
	src     Source
	scope   *screen.Scope
	notices *screen.Notices

	mu         sync.Mutex
	medicines  []domain.Medicine
	lines      []Line
	submitting bool
}

func NewCart(src Source, scope *screen.Scope, notices *screen.Notices) *Cart {
	return &Cart{src: src, scope: scope, notices: notices}
}

func (c *Cart) Name() string {
	return "sale"
}

// Refresh reloads the selectable medicines.
func (c *Cart) Refresh() error {
	ctx, ticket := c.scope.Begin(resourceMedicines)
	meds, err := c.src.Medicines(ctx)
	if err != nil {
		if c.scope.Latest(ticket) {
			c.notices.Fail(err, "Failed to load medicines")
		}
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope.Latest(ticket) {
		c.medicines = meds
	}
	return nil
}

func (c *Cart) Close() {
	c.scope.Close()
}

func (c *Cart) find(id string) int {
	for i := range c.lines {
		if c.lines[i].MedicineID == id {
			return i
		}
	}
	return -1
}

// AddMedicine appends the medicine with quantity 1.
func (c *Cart) AddMedicine(id string) error {
	err := c.add(id)
	if err != nil {
		c.notices.Fail(err, "Failed to add medicine")
	}
	return err
}

func (c *Cart) add(id string) error {
	if id == "" {
		return ErrNoMedicine
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitting
	}
	if c.find(id) >= 0 {
		return ErrAlreadyInCart
	}
	var med *domain.Medicine
	for i := range c.medicines {
		if c.medicines[i].ID == id {
			med = &c.medicines[i]
			break
		}
	}
	if med == nil {
		return ErrUnknownMedicine
	}
	if med.Quantity < 1 {
		return ErrOutOfStock
	}
	c.lines = append(c.lines, Line{
		MedicineID: med.ID,
		Name:       med.Name,
		UnitPrice:  med.Price,
		Stock:      med.Quantity,
		Quantity:   1,
	})
	return nil
}

// SetQuantity sets a line's quantity clamped to [1, stock] and returns
// the value applied.
func (c *Cart) SetQuantity(id string, qty int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		c.notices.Fail(ErrSubmitting, "")
		return 0, ErrSubmitting
	}
	i := c.find(id)
	if i < 0 {
		c.notices.Fail(ErrNotInCart, "")
		return 0, ErrNotInCart
	}
	line := &c.lines[i]
	switch {
	case qty < 1:
		qty = 1
	case qty > line.Stock:
		qty = line.Stock
		c.notices.Warning(fmt.Sprintf("Only %d %s in stock", line.Stock, line.Name))
	}
	line.Quantity = qty
	return qty, nil
}

func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		c.notices.Fail(ErrSubmitting, "")
		return ErrSubmitting
	}
	i := c.find(id)
	if i < 0 {
		c.notices.Fail(ErrNotInCart, "")
		return ErrNotInCart
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Totals is recomputed from the lines on every call.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalsOf(c.lines)
}

func totalsOf(lines []Line) Totals {
	t := Totals{Price: decimal.Zero}
	for _, l := range lines {
		t.Quantity += l.Quantity
		t.Price = t.Price.Add(l.Subtotal())
	}
	return t
}

func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Medicines:  append([]domain.Medicine{}, c.medicines...),
		Lines:      make([]ViewLine, 0, len(c.lines)),
		Totals:     totalsOf(c.lines),
		Submitting: c.submitting,
	}
	for _, l := range c.lines {
		v.Lines = append(v.Lines, ViewLine{Line: l, Subtotal: l.Subtotal()})
	}
	return v
}

// ConfirmSale submits the whole cart as one sale. The cart is cleared only
// when the gateway accepts it.
func (c *Cart) ConfirmSale() error {
	c.mu.Lock()
	var reject error
	switch {
	case c.submitting:
		reject = ErrSubmitting
	case len(c.lines) == 0:
		reject = ErrEmptyCart
	}
	if reject != nil {
		c.mu.Unlock()
		c.notices.Fail(reject, "")
		return reject
	}
	body := domain.SaleCreate{Cart: make([]domain.SaleLine, 0, len(c.lines))}
	for _, l := range c.lines {
		body.Cart = append(body.Cart, domain.SaleLine{MedicineID: l.MedicineID, Quantity: l.Quantity})
	}
	c.submitting = true
	c.mu.Unlock()

	err := c.src.ConfirmSale(c.scope.Context(), body)

	c.mu.Lock()
	c.submitting = false
	if err == nil {
		c.lines = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.notices.Fail(err, "Failed to confirm sale")
		return err
	}
	zap.L().Info("sale confirmed",
		zap.String("namespace", "sale"),
		zap.Int("lines", len(body.Cart)))
	c.notices.Success("Sale confirmed")
	_ = c.Refresh()
	return nil
}
