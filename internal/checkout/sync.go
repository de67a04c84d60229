package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceica/ceicacake/internal/api"
)

// ErrEmptyCart rejects saving an order with no lines.
var ErrEmptyCart = errors.New("o pedido precisa de pelo menos um item")

// saleWriter is the slice of the API client the sync needs.
type saleWriter interface {
	Checkout(ctx context.Context, in api.CheckoutRequest) error
	CreateSale(ctx context.Context, in api.SaleWrite) (api.Sale, error)
	UpdateSale(ctx context.Context, id int64, in api.SaleWrite) (api.Sale, error)
	PatchSale(ctx context.Context, id int64, fields map[string]any) (api.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
}

// Op names one step of a batch.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpStatus Op = "status"
)

// Outcome is the result of one step. SaleID is zero for creations that never
// got a row id.
type Outcome struct {
	Op     Op
	SaleID int64
	Label  string
	Err    error
}

// BatchResult reports every step of a sequential batch. There is no rollback:
// steps before a failure stay applied, and the caller decides what to tell
// the user from the per-item outcomes.
type BatchResult struct {
	Outcomes []Outcome
}

func (r BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r BatchResult) AllOK() bool {
	return len(r.Failed()) == 0
}

// Summary is a one-line pt-BR result for the status bar.
func (r BatchResult) Summary() string {
	failed := len(r.Failed())
	total := len(r.Outcomes)
	if failed == 0 {
		return "Pedido salvo com sucesso."
	}
	return fmt.Sprintf("%d de %d operações falharam.", failed, total)
}

// Save pushes the cart to the server. A fresh order is one checkout call; an
// edited order is reconciled row by row: existing lines replaced, new lines
// created with the order's original timestamp, removed lines deleted.
func Save(ctx context.Context, client saleWriter, cart *Cart) (BatchResult, error) {
	if len(cart.Lines) == 0 && !cart.Editing() {
		return BatchResult{}, ErrEmptyCart
	}

	if !cart.Editing() {
		req := api.CheckoutRequest{
			Customer:      cart.CustomerID,
			PaymentStatus: cart.PaymentStatus,
		}
		for _, line := range cart.Lines {
			req.Items = append(req.Items, api.CheckoutItem{
				Product:  line.Product,
				Quantity: line.Quantity,
				Price:    line.Price,
			})
		}
		if err := client.Checkout(ctx, req); err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Outcomes: []Outcome{{Op: OpCreate, Label: "pedido"}}}, nil
	}

	var result BatchResult
	for _, line := range cart.Lines {
		write := api.SaleWrite{
			Product:       line.Product,
			Price:         line.Price,
			Quantity:      line.Quantity,
			Customer:      cart.CustomerID,
			PaymentStatus: cart.PaymentStatus,
		}
		if line.SaleID != 0 {
			_, err := client.UpdateSale(ctx, line.SaleID, write)
			result.Outcomes = append(result.Outcomes, Outcome{Op: OpUpdate, SaleID: line.SaleID, Label: line.Label, Err: err})
			continue
		}
		write.DataHour = cart.originalTime
		created, err := client.CreateSale(ctx, write)
		result.Outcomes = append(result.Outcomes, Outcome{Op: OpCreate, SaleID: created.ID, Label: line.Label, Err: err})
	}
	for _, id := range cart.RemovedIDs() {
		err := client.DeleteSale(ctx, id)
		result.Outcomes = append(result.Outcomes, Outcome{Op: OpDelete, SaleID: id, Err: err})
	}
	return result, nil
}

// DeleteGroup deletes every member row of an order, reporting each row.
func DeleteGroup(ctx context.Context, client saleWriter, ids []int64) BatchResult {
	var result BatchResult
	for _, id := range ids {
		err := client.DeleteSale(ctx, id)
		result.Outcomes = append(result.Outcomes, Outcome{Op: OpDelete, SaleID: id, Err: err})
	}
	return result
}

// SetGroupStatus patches payment_status on every member row of an order.
func SetGroupStatus(ctx context.Context, client saleWriter, ids []int64, status api.PaymentStatus) BatchResult {
	var result BatchResult
	for _, id := range ids {
		_, err := client.PatchSale(ctx, id, map[string]any{"payment_status": status})
		result.Outcomes = append(result.Outcomes, Outcome{Op: OpStatus, SaleID: id, Err: err})
	}
	return result
}
