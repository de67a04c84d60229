// Package checkout builds multi-item orders and reconciles edits against the
// sale rows already on the server.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/grouping"
)

// Line is one cart position. SaleID is zero for lines added in this session
// and the persisted row id for lines loaded from an existing order.
type Line struct {
	SaleID   int64
	Product  string
	Label    string
	Price    decimal.Decimal
	Quantity int64
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart is an order being composed or edited.
type Cart struct {
	CustomerID    int64
	CustomerName  string
	PaymentStatus api.PaymentStatus
	Lines         []Line

	originalIDs  []int64
	originalTime *api.Time
}

// NewCart starts a fresh order for a customer.
func NewCart(customerID int64, customerName string) *Cart {
	return &Cart{
		CustomerID:    customerID,
		CustomerName:  customerName,
		PaymentStatus: api.PaymentPending,
	}
}

// EditCart loads an existing order. New lines added later inherit the group's
// original timestamp so the order stays one group after saving.
func EditCart(group grouping.SaleGroup) *Cart {
	cart := &Cart{
		CustomerID:    group.CustomerID,
		CustomerName:  group.CustomerName,
		PaymentStatus: group.PaymentStatus,
	}
	t := api.Time{Time: group.DataHour}
	cart.originalTime = &t
	for _, member := range group.Members {
		cart.Lines = append(cart.Lines, Line{
			SaleID:   member.ID,
			Product:  member.Product,
			Label:    member.ProductName,
			Price:    member.Price,
			Quantity: member.Quantity,
		})
		cart.originalIDs = append(cart.originalIDs, member.ID)
	}
	return cart
}

// Editing reports whether this cart was loaded from a persisted order.
func (c *Cart) Editing() bool {
	return len(c.originalIDs) > 0
}

func (c *Cart) Add(product, label string, price decimal.Decimal, quantity int64) {
	c.Lines = append(c.Lines, Line{Product: product, Label: label, Price: price, Quantity: quantity})
}

// Remove drops the line at index; out-of-range indexes are ignored.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
}

func (c *Cart) SetQuantity(index int, quantity int64) {
	if index < 0 || index >= len(c.Lines) || quantity < 1 {
		return
	}
	c.Lines[index].Quantity = quantity
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// RemovedIDs are original rows no longer present in the cart.
func (c *Cart) RemovedIDs() []int64 {
	present := make(map[int64]bool, len(c.Lines))
	for _, line := range c.Lines {
		if line.SaleID != 0 {
			present[line.SaleID] = true
		}
	}
	var removed []int64
	for _, id := range c.originalIDs {
		if !present[id] {
			removed = append(removed, id)
		}
	}
	return removed
}
