package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/grouping"
)

type call struct {
	op     string
	saleID int64
	write  api.SaleWrite
}

type fakeWriter struct {
	calls    []call
	checkout *api.CheckoutRequest
	failOn   map[int64]error
	nextID   int64
}

func (f *fakeWriter) Checkout(_ context.Context, in api.CheckoutRequest) error {
	f.checkout = &in
	return nil
}

func (f *fakeWriter) CreateSale(_ context.Context, in api.SaleWrite) (api.Sale, error) {
	f.calls = append(f.calls, call{op: "create", write: in})
	f.nextID++
	return api.Sale{ID: f.nextID}, nil
}

func (f *fakeWriter) UpdateSale(_ context.Context, id int64, in api.SaleWrite) (api.Sale, error) {
	f.calls = append(f.calls, call{op: "update", saleID: id, write: in})
	return api.Sale{ID: id}, f.failOn[id]
}

func (f *fakeWriter) PatchSale(_ context.Context, id int64, _ map[string]any) (api.Sale, error) {
	f.calls = append(f.calls, call{op: "patch", saleID: id})
	return api.Sale{ID: id}, f.failOn[id]
}

func (f *fakeWriter) DeleteSale(_ context.Context, id int64) error {
	f.calls = append(f.calls, call{op: "delete", saleID: id})
	return f.failOn[id]
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testGroup() grouping.SaleGroup {
	dataHour := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	return grouping.SaleGroup{
		CustomerID:    5,
		CustomerName:  "Maria",
		DataHour:      dataHour,
		PaymentStatus: api.PaymentPending,
		Members: []api.Sale{
			{ID: 10, Product: "BOLO", ProductName: "Bolo", Price: price("10.00"), Quantity: 1, Customer: 5},
			{ID: 11, Product: "TORTA", ProductName: "Torta", Price: price("15.00"), Quantity: 1, Customer: 5},
		},
	}
}

func TestNewOrderIsSingleCheckoutCall(t *testing.T) {
	writer := &fakeWriter{}
	cart := NewCart(5, "Maria")
	cart.Add("BOLO", "Bolo", price("10.00"), 2)
	cart.Add("TORTA", "Torta", price("15.00"), 1)
	cart.PaymentStatus = api.PaymentPaid

	result, err := Save(context.Background(), writer, cart)
	require.NoError(t, err)
	require.True(t, result.AllOK())
	require.Empty(t, writer.calls)
	require.NotNil(t, writer.checkout)
	require.Equal(t, int64(5), writer.checkout.Customer)
	require.Equal(t, api.PaymentPaid, writer.checkout.PaymentStatus)
	require.Len(t, writer.checkout.Items, 2)
	require.Equal(t, int64(2), writer.checkout.Items[0].Quantity)
}

func TestEmptyNewOrderRejected(t *testing.T) {
	_, err := Save(context.Background(), &fakeWriter{}, NewCart(5, "Maria"))
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestEditReconcilesRowByRow(t *testing.T) {
	writer := &fakeWriter{}
	cart := EditCart(testGroup())

	// keep row 10, drop row 11, add a new line
	cart.Remove(1)
	cart.Add("PUDIM", "Pudim", price("8.00"), 1)

	result, err := Save(context.Background(), writer, cart)
	require.NoError(t, err)
	require.True(t, result.AllOK())
	require.Nil(t, writer.checkout)

	require.Len(t, writer.calls, 3)
	require.Equal(t, "update", writer.calls[0].op)
	require.Equal(t, int64(10), writer.calls[0].saleID)

	require.Equal(t, "create", writer.calls[1].op)
	require.NotNil(t, writer.calls[1].write.DataHour, "new lines must keep the order's timestamp")
	require.Equal(t, time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC), writer.calls[1].write.DataHour.Time)

	require.Equal(t, "delete", writer.calls[2].op)
	require.Equal(t, int64(11), writer.calls[2].saleID)
}

func TestPartialFailureReportsPerItem(t *testing.T) {
	boom := errors.New("constraint")
	writer := &fakeWriter{failOn: map[int64]error{11: boom}}
	cart := EditCart(testGroup())
	cart.SetQuantity(0, 3)

	result, err := Save(context.Background(), writer, cart)
	require.NoError(t, err)
	require.False(t, result.AllOK())

	failed := result.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, OpUpdate, failed[0].Op)
	require.Equal(t, int64(11), failed[0].SaleID)
	require.ErrorIs(t, failed[0].Err, boom)

	// the step before the failure was still applied
	require.Equal(t, "update", writer.calls[0].op)
	require.Equal(t, int64(3), writer.calls[0].write.Quantity)
	require.Equal(t, "1 de 2 operações falharam.", result.Summary())
}

func TestDeleteGroupReportsEveryRow(t *testing.T) {
	writer := &fakeWriter{failOn: map[int64]error{11: fmt.Errorf("gone")}}

	result := DeleteGroup(context.Background(), writer, []int64{10, 11, 12})
	require.Len(t, result.Outcomes, 3)
	require.Len(t, result.Failed(), 1)
	require.Equal(t, int64(11), result.Failed()[0].SaleID)
}

func TestSetGroupStatusPatchesEveryRow(t *testing.T) {
	writer := &fakeWriter{}

	result := SetGroupStatus(context.Background(), writer, []int64{10, 11}, api.PaymentPaid)
	require.True(t, result.AllOK())
	require.Len(t, writer.calls, 2)
	require.Equal(t, "patch", writer.calls[0].op)
}

func TestCartTotal(t *testing.T) {
	cart := NewCart(5, "Maria")
	cart.Add("BOLO", "Bolo", price("10.00"), 2)
	cart.Add("TORTA", "Torta", price("7.50"), 2)
	require.True(t, cart.Total().Equal(price("35.00")))
}
