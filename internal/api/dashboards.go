package api

import (
	"context"
	"net/url"
)

// Products returns the product dropdown options.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	err := get(ctx, c, "/products/", nil, &products)
	return products, err
}

// periodQuery encodes the optional date window the dashboard endpoints share.
func periodQuery(startDate, endDate string) url.Values {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	return q
}

func (c *Client) SalesByProduct(ctx context.Context, startDate, endDate string) ([]ProductSales, error) {
	var rows []ProductSales
	err := get(ctx, c, "/sales-by-product/", periodQuery(startDate, endDate), &rows)
	return rows, err
}

func (c *Client) SalesByClient(ctx context.Context, startDate, endDate string) ([]ClientSales, error) {
	var rows []ClientSales
	err := get(ctx, c, "/sales-by-client/", periodQuery(startDate, endDate), &rows)
	return rows, err
}

func (c *Client) SalesByPeriod(ctx context.Context, startDate, endDate string) ([]ProductSales, error) {
	var rows []ProductSales
	err := get(ctx, c, "/sales-by-period/", periodQuery(startDate, endDate), &rows)
	return rows, err
}

func (c *Client) SalesOverview(ctx context.Context, startDate, endDate string) (Overview, error) {
	var out Overview
	err := get(ctx, c, "/sales-overview/", periodQuery(startDate, endDate), &out)
	return out, err
}

func (c *Client) SalesConversion(ctx context.Context, startDate, endDate string) (Conversion, error) {
	var out Conversion
	err := get(ctx, c, "/sales-conversion/", periodQuery(startDate, endDate), &out)
	return out, err
}

func (c *Client) SalesByPaymentStatus(ctx context.Context, startDate, endDate string) ([]StatusSales, error) {
	var rows []StatusSales
	err := get(ctx, c, "/sales-by-payment-status/", periodQuery(startDate, endDate), &rows)
	return rows, err
}

func (c *Client) SalesAverageTicket(ctx context.Context, startDate, endDate string) (AverageTicket, error) {
	var out AverageTicket
	err := get(ctx, c, "/sales-average-ticket/", periodQuery(startDate, endDate), &out)
	return out, err
}
