package inventory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

const resourceVendorMedicines = "inventory:vendor_medicines"

var (
	ErrComposerClosed  = screen.Reject("Order form is not open")
	ErrEditingLocked   = screen.Reject("Only quantities can be changed while editing an order")
	ErrNoVendor        = screen.Reject("Please select a vendor")
	ErrNoMedicine      = screen.Reject("Please select a medicine")
	ErrBadQuantity     = screen.Reject("Quantity must be at least 1")
	ErrUnknownMedicine = screen.Reject("Medicine is not supplied by this vendor")
	ErrNoLine          = screen.Reject("Line item not found")
	ErrEmptyOrder      = screen.Reject("Add at least one medicine to the order")
	ErrSubmitting      = screen.Reject("Order is being submitted")
)

// ComposerSource is the gateway surface used to compose orders.
type ComposerSource interface {
	VendorMedicines(ctx context.Context, vendorID int64) ([]domain.VendorMedicine, error)
	CreateOrder(ctx context.Context, o domain.OrderCreate) (domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, o domain.OrderUpdate) (domain.Order, error)
}

// DraftLine is one pending order line.
type DraftLine struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// ComposerState is the rendered composer.
type ComposerState struct {
	Open       bool                    `json:"open"`
	EditingID  int64                   `json:"editing_id,omitempty"`
	VendorID   int64                   `json:"vendor_id,omitempty"`
	Medicines  []domain.VendorMedicine `json:"medicines"`
	Lines      []DraftLine             `json:"lines"`
	CanSubmit  bool                    `json:"can_submit"`
	Submitting bool                    `json:"submitting"`
}

// Composer builds a new order or re-composes an existing one. While an
// existing order is loaded only line quantities may change.
type Composer struct {
	src     ComposerSource
	scope   *screen.Scope
	notices *screen.Notices
	now     func() time.Time

	mu         sync.Mutex
	open       bool
	editing    *domain.Order
	vendorID   int64
	medicines  []domain.VendorMedicine
	lines      []DraftLine
	submitting bool
}

func NewComposer(src ComposerSource, scope *screen.Scope, notices *screen.Notices) *Composer {
	return &Composer{src: src, scope: scope, notices: notices, now: time.Now}
}

func (c *Composer) reset() {
	c.open = false
	c.editing = nil
	c.vendorID = 0
	c.medicines = nil
	c.lines = nil
}

// Open starts a new, empty order. Refused while a submit is in flight.
func (c *Composer) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return c.reject(ErrSubmitting)
	}
	c.reset()
	c.open = true
	return nil
}

// Cancel discards the draft and closes the composer.
func (c *Composer) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return c.reject(ErrSubmitting)
	}
	c.reset()
	return nil
}

func (c *Composer) reject(err error) error {
	c.notices.Fail(err, "")
	return err
}

// SelectVendor scopes the selectable medicines to vendorID and clears the
// draft. A zero id is ignored.
func (c *Composer) SelectVendor(vendorID int64) error {
	if vendorID <= 0 {
		return nil
	}
	c.mu.Lock()
	switch {
	case !c.open:
		c.mu.Unlock()
		return c.reject(ErrComposerClosed)
	case c.submitting:
		c.mu.Unlock()
		return c.reject(ErrSubmitting)
	case c.editing != nil:
		c.mu.Unlock()
		return c.reject(ErrEditingLocked)
	}
	c.vendorID = vendorID
	c.medicines = nil
	c.lines = nil
	c.mu.Unlock()

	ctx, ticket := c.scope.Begin(resourceVendorMedicines)
	meds, err := c.src.VendorMedicines(ctx, vendorID)
	if err != nil {
		if c.scope.Latest(ticket) {
			c.notices.Fail(err, "Failed to fetch vendor medicines")
		}
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope.Latest(ticket) && c.vendorID == vendorID {
		c.medicines = meds
		if len(meds) == 0 {
			c.notices.Info("This vendor has no medicines")
		}
	}
	return nil
}

// AddLineItem appends a line. The same medicine may appear more than once.
func (c *Composer) AddLineItem(medicineID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.open:
		return c.reject(ErrComposerClosed)
	case c.editing != nil:
		return c.reject(ErrEditingLocked)
	case c.submitting:
		return c.reject(ErrSubmitting)
	case c.vendorID == 0:
		return c.reject(ErrNoVendor)
	case medicineID <= 0:
		return c.reject(ErrNoMedicine)
	case quantity < 1:
		return c.reject(ErrBadQuantity)
	}
	for _, m := range c.medicines {
		if m.ID == medicineID {
			c.lines = append(c.lines, DraftLine{MedicineID: m.ID, Name: m.Name, Quantity: quantity})
			return nil
		}
	}
	return c.reject(ErrUnknownMedicine)
}

// EditLineItemQuantity updates one line in place.
func (c *Composer) EditLineItemQuantity(index, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.open:
		return c.reject(ErrComposerClosed)
	case c.submitting:
		return c.reject(ErrSubmitting)
	case index < 0 || index >= len(c.lines):
		return c.reject(ErrNoLine)
	case quantity < 1:
		return c.reject(ErrBadQuantity)
	}
	c.lines[index].Quantity = quantity
	return nil
}

// LoadExisting opens the composer on an existing order. Only orders still
// in progress or in transit can be loaded.
func (c *Composer) LoadExisting(order domain.Order) error {
	if !order.Status.Editable() {
		return c.reject(ErrNotEditable)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return c.reject(ErrSubmitting)
	}
	c.reset()
	o := order
	c.open = true
	c.editing = &o
	c.vendorID = order.VendorID
	c.medicines = make([]domain.VendorMedicine, 0, len(order.Medicines))
	c.lines = make([]DraftLine, 0, len(order.Medicines))
	for _, m := range order.Medicines {
		c.medicines = append(c.medicines, domain.VendorMedicine{ID: m.ID, Name: m.Name})
		c.lines = append(c.lines, DraftLine{MedicineID: m.ID, Name: m.Name, Quantity: m.Quantity})
	}
	return nil
}

// Submit sends the draft. A new order is created in progress and dated
// today; an edited order keeps its date. The draft survives a failure.
func (c *Composer) Submit() (domain.Order, error) {
	c.mu.Lock()
	var reject error
	switch {
	case !c.open:
		reject = ErrComposerClosed
	case c.submitting:
		reject = ErrSubmitting
	case c.vendorID == 0:
		reject = ErrNoVendor
	case len(c.lines) == 0:
		reject = ErrEmptyOrder
	}
	if reject != nil {
		c.mu.Unlock()
		return domain.Order{}, c.reject(reject)
	}
	lines := make([]domain.OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, domain.OrderLine{MedicineID: l.MedicineID, Quantity: l.Quantity})
	}
	vendorID := c.vendorID
	editing := c.editing
	c.submitting = true
	c.mu.Unlock()

	ctx := c.scope.Context()
	var (
		order domain.Order
		err   error
	)
	if editing != nil {
		date := editing.OrderDate.Date()
		if date == "" {
			date = c.now().Format(domain.DateLayout)
		}
		order, err = c.src.UpdateOrder(ctx, editing.ID, domain.OrderUpdate{
			VendorID:  vendorID,
			OrderDate: date,
			Medicines: lines,
		})
	} else {
		order, err = c.src.CreateOrder(ctx, domain.OrderCreate{
			VendorID:  vendorID,
			Medicines: lines,
			Status:    domain.StatusInProgress,
			OrderDate: c.now().Format(domain.DateLayout),
		})
	}

	c.mu.Lock()
	c.submitting = false
	if err == nil {
		c.reset()
	}
	c.mu.Unlock()

	if err != nil {
		c.notices.Fail(err, "Failed to save order")
		return domain.Order{}, err
	}
	if editing != nil {
		c.notices.Success("Order updated")
	} else {
		c.notices.Success("Order created")
	}
	zap.L().Info("order saved",
		zap.String("namespace", "inventory"),
		zap.Int64("vendor_id", vendorID),
		zap.Int("lines", len(lines)),
		zap.Bool("update", editing != nil))
	return order, nil
}

func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := ComposerState{
		Open:       c.open,
		VendorID:   c.vendorID,
		Medicines:  append([]domain.VendorMedicine{}, c.medicines...),
		Lines:      append([]DraftLine{}, c.lines...),
		CanSubmit:  c.open && !c.submitting && c.vendorID != 0 && len(c.lines) > 0,
		Submitting: c.submitting,
	}
	if c.editing != nil {
		st.EditingID = c.editing.ID
	}
	return st
}
