package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListSales returns one page of sales ordered per params.
func (c *Client) ListSales(ctx context.Context, params ListParams) (Page[Sale], error) {
	var page Page[Sale]
	err := get(ctx, c, "/sales/", params.Values(), &page)
	return page, err
}

func (c *Client) GetSale(ctx context.Context, id int64) (Sale, error) {
	var sale Sale
	err := get(ctx, c, fmt.Sprintf("/sales/%d/", id), nil, &sale)
	return sale, err
}

func (c *Client) CreateSale(ctx context.Context, in SaleWrite) (Sale, error) {
	var sale Sale
	err := send(ctx, c, http.MethodPost, "/sales/", in, &sale)
	return sale, err
}

// UpdateSale replaces the whole row.
func (c *Client) UpdateSale(ctx context.Context, id int64, in SaleWrite) (Sale, error) {
	var sale Sale
	err := send(ctx, c, http.MethodPut, fmt.Sprintf("/sales/%d/", id), in, &sale)
	return sale, err
}

// PatchSale updates only the given fields, typically payment_status.
func (c *Client) PatchSale(ctx context.Context, id int64, fields map[string]any) (Sale, error) {
	var sale Sale
	err := send(ctx, c, http.MethodPatch, fmt.Sprintf("/sales/%d/", id), fields, &sale)
	return sale, err
}

func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	return send(ctx, c, http.MethodDelete, fmt.Sprintf("/sales/%d/", id), nil, nil)
}

// Checkout creates every line of a multi-item order atomically on the server.
func (c *Client) Checkout(ctx context.Context, in CheckoutRequest) error {
	return send(ctx, c, http.MethodPost, "/checkout/", in, nil)
}
