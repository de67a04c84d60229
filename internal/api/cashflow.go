package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListCashflow returns one page of ledger entries for the given period.
func (c *Client) ListCashflow(ctx context.Context, params ListParams) (Page[CashflowEntry], error) {
	var page Page[CashflowEntry]
	err := get(ctx, c, "/cashflow/", params.Values(), &page)
	return page, err
}

func (c *Client) GetCashflow(ctx context.Context, id int64) (CashflowEntry, error) {
	var entry CashflowEntry
	err := get(ctx, c, fmt.Sprintf("/cashflow/%d/", id), nil, &entry)
	return entry, err
}

func (c *Client) CreateCashflow(ctx context.Context, in CashflowWrite) (CashflowEntry, error) {
	var entry CashflowEntry
	err := send(ctx, c, http.MethodPost, "/cashflow/", in, &entry)
	return entry, err
}

func (c *Client) UpdateCashflow(ctx context.Context, id int64, in CashflowWrite) (CashflowEntry, error) {
	var entry CashflowEntry
	err := send(ctx, c, http.MethodPut, fmt.Sprintf("/cashflow/%d/", id), in, &entry)
	return entry, err
}
