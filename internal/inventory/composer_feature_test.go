package inventory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/internal/screen"
)

type composerTestContext struct {
	gw      *fakeGateway
	notices *screen.Notices
	inv     *Screen
	today   time.Time
	err     error
}

func (c *composerTestContext) reset() {
	c.gw = newFakeGateway()
	c.notices = &screen.Notices{}
	c.inv = nil
	c.today = time.Now()
	c.err = nil
}

func (c *composerTestContext) vendorSupplies(vendorID int64, table *godog.Table) error {
	c.gw.vendors = append(c.gw.vendors, domain.Vendor{ID: vendorID, Name: fmt.Sprintf("Vendor %d", vendorID)})
	for i, row := range table.Rows {
		if i == 0 {
			continue // skip header
		}
		var id int64
		fmt.Sscan(row.Cells[0].Value, &id)
		c.gw.vendorMedicines[vendorID] = append(c.gw.vendorMedicines[vendorID], domain.VendorMedicine{ID: id, Name: row.Cells[1].Value})
	}
	return nil
}

func (c *composerTestContext) vendorSuppliesNothing(vendorID int64) error {
	c.gw.vendors = append(c.gw.vendors, domain.Vendor{ID: vendorID, Name: fmt.Sprintf("Vendor %d", vendorID)})
	return nil
}

func (c *composerTestContext) todayIs(day string) error {
	t, err := time.Parse(domain.DateLayout, day)
	c.today = t
	return err
}

func (c *composerTestContext) theInventoryScreenIsOpen() error {
	c.inv = NewScreen(c.gw, screen.NewScope(context.Background()), c.notices)
	c.inv.Composer.now = func() time.Time { return c.today }
	return c.inv.Refresh()
}

func (c *composerTestContext) theGatewayRejectsWrites() error {
	c.gw.failWrites = true
	return nil
}

func (c *composerTestContext) anOrderContains(id, vendorID int64, date, status string, table *godog.Table) error {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return err
	}
	order := domain.Order{ID: id, VendorID: vendorID, OrderDate: domain.Time{Time: day}, Status: domain.OrderStatus(status)}
	for i, row := range table.Rows {
		if i == 0 {
			continue // skip header
		}
		var medID int64
		var qty int
		fmt.Sscan(row.Cells[0].Value, &medID)
		fmt.Sscan(row.Cells[2].Value, &qty)
		order.Medicines = append(order.Medicines, domain.OrderMedicine{ID: medID, Name: row.Cells[1].Value, Quantity: qty})
	}
	c.gw.orders = append(c.gw.orders, order)
	return c.inv.Orders.Refresh()
}

func (c *composerTestContext) iOpenTheOrderComposer() error {
	return c.inv.Composer.Open()
}

func (c *composerTestContext) iSelectVendor(id int64) error {
	c.err = c.inv.Composer.SelectVendor(id)
	return nil
}

func (c *composerTestContext) iAddMedicineWithQuantity(id int64, qty int) error {
	c.err = c.inv.Composer.AddLineItem(id, qty)
	return nil
}

func (c *composerTestContext) iChangeLineToQuantity(index, qty int) error {
	return c.inv.Composer.EditLineItemQuantity(index, qty)
}

func (c *composerTestContext) iSubmitTheOrder() error {
	_, c.err = c.inv.SubmitOrder()
	return nil
}

func (c *composerTestContext) iEditOrder(id int64) error {
	c.err = c.inv.EditOrder(id)
	return nil
}

func (c *composerTestContext) theOperationIsRejectedWith(msg string) error {
	if c.err == nil {
		return fmt.Errorf("expected rejection %q, got success", msg)
	}
	for _, n := range c.notices.Drain() {
		if n.Level == screen.LevelError && n.Message == msg {
			return nil
		}
	}
	return fmt.Errorf("no error notice %q (err: %v)", msg, c.err)
}

func (c *composerTestContext) theDraftHasLines(n int) error {
	if got := len(c.inv.Composer.State().Lines); got != n {
		return fmt.Errorf("expected %d draft lines, got %d", n, got)
	}
	return nil
}

func (c *composerTestContext) theSelectableMedicinesAre(names string) error {
	var got []string
	for _, m := range c.inv.Composer.State().Medicines {
		got = append(got, m.Name)
	}
	if strings.Join(got, ", ") != names {
		return fmt.Errorf("expected medicines %q, got %q", names, strings.Join(got, ", "))
	}
	return nil
}

func (c *composerTestContext) thereAreNoSelectableMedicines() error {
	st := c.inv.Composer.State()
	if len(st.Medicines) != 0 {
		return fmt.Errorf("expected no medicines, got %d", len(st.Medicines))
	}
	if st.CanSubmit {
		return fmt.Errorf("submit should be disabled")
	}
	return nil
}

func (c *composerTestContext) theGatewayCreatedAnOrderForVendorWithLines(vendorID int64, n int) error {
	if c.err != nil {
		return c.err
	}
	if len(c.gw.created) != 1 {
		return fmt.Errorf("expected one created order, got %d", len(c.gw.created))
	}
	o := c.gw.created[0]
	if o.VendorID != vendorID || len(o.Medicines) != n {
		return fmt.Errorf("unexpected order %+v", o)
	}
	return nil
}

func (c *composerTestContext) theCreatedOrderHasStatusAndDate(status, date string) error {
	o := c.gw.created[0]
	if string(o.Status) != status || o.OrderDate != date {
		return fmt.Errorf("expected %s/%s, got %s/%s", status, date, o.Status, o.OrderDate)
	}
	return nil
}

func (c *composerTestContext) theOrderComposerIsClosed() error {
	if st := c.inv.Composer.State(); st.Open || len(st.Lines) != 0 {
		return fmt.Errorf("composer still open: %+v", st)
	}
	return nil
}

func (c *composerTestContext) noOrderWasSentToTheGateway() error {
	if len(c.gw.created) != 0 || len(c.gw.updated) != 0 {
		return fmt.Errorf("unexpected gateway writes")
	}
	return nil
}

func (c *composerTestContext) theGatewayUpdatedOrderWithDateAndFirstQuantity(id int64, date string, qty int) error {
	if c.err != nil {
		return c.err
	}
	u, ok := c.gw.updated[id]
	if !ok {
		return fmt.Errorf("order %d was not updated", id)
	}
	if u.OrderDate != date || len(u.Medicines) == 0 || u.Medicines[0].Quantity != qty {
		return fmt.Errorf("unexpected update %+v", u)
	}
	if len(c.gw.created) != 0 {
		return fmt.Errorf("editing must not create a new order")
	}
	return nil
}

func (c *composerTestContext) editingIs(outcome string) error {
	open := c.inv.Composer.State().Open
	switch outcome {
	case "allowed":
		if c.err != nil || !open {
			return fmt.Errorf("expected edit to be allowed: %v", c.err)
		}
	case "refused":
		if c.err == nil || open {
			return fmt.Errorf("expected edit to be refused")
		}
	}
	return nil
}

func InitializeComposerScenario(ctx *godog.ScenarioContext) {
	tc := &composerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^vendor (\d+) supplies:$`, tc.vendorSupplies)
	ctx.Step(`^vendor (\d+) supplies nothing$`, tc.vendorSuppliesNothing)
	ctx.Step(`^today is "([^"]*)"$`, tc.todayIs)
	ctx.Step(`^the inventory screen is open$`, tc.theInventoryScreenIsOpen)
	ctx.Step(`^the gateway rejects writes$`, tc.theGatewayRejectsWrites)
	ctx.Step(`^order (\d+) for vendor (\d+) dated "([^"]*)" with status "([^"]*)" contains:$`, tc.anOrderContains)

	// When steps
	ctx.Step(`^I open the order composer$`, tc.iOpenTheOrderComposer)
	ctx.Step(`^I select vendor (\d+)$`, tc.iSelectVendor)
	ctx.Step(`^I add medicine (\d+) with quantity (\d+)$`, tc.iAddMedicineWithQuantity)
	ctx.Step(`^I change line (\d+) to quantity (\d+)$`, tc.iChangeLineToQuantity)
	ctx.Step(`^I submit the order$`, tc.iSubmitTheOrder)
	ctx.Step(`^I edit order (\d+)$`, tc.iEditOrder)

	// Then steps
	ctx.Step(`^the operation is rejected with "([^"]*)"$`, tc.theOperationIsRejectedWith)
	ctx.Step(`^the draft has (\d+) lines?$`, tc.theDraftHasLines)
	ctx.Step(`^the selectable medicines are "([^"]*)"$`, tc.theSelectableMedicinesAre)
	ctx.Step(`^there are no selectable medicines$`, tc.thereAreNoSelectableMedicines)
	ctx.Step(`^the gateway created an order for vendor (\d+) with (\d+) lines?$`, tc.theGatewayCreatedAnOrderForVendorWithLines)
	ctx.Step(`^the created order has status "([^"]*)" and date "([^"]*)"$`, tc.theCreatedOrderHasStatusAndDate)
	ctx.Step(`^the order composer is closed$`, tc.theOrderComposerIsClosed)
	ctx.Step(`^no order was sent to the gateway$`, tc.noOrderWasSentToTheGateway)
	ctx.Step(`^the gateway updated order (\d+) with date "([^"]*)" and first quantity (\d+)$`, tc.theGatewayUpdatedOrderWithDateAndFirstQuantity)
	ctx.Step(`^editing is (allowed|refused)$`, tc.editingIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeComposerScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/composer.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
