package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListCustomers returns one page of customers.
func (c *Client) ListCustomers(ctx context.Context, params ListParams) (Page[Customer], error) {
	var page Page[Customer]
	err := get(ctx, c, "/customers/", params.Values(), &page)
	return page, err
}

// AllCustomers fetches the full active-customer list in one call, used to
// populate pickers and refresh the local cache.
func (c *Client) AllCustomers(ctx context.Context) ([]Customer, error) {
	active := true
	params := ListParams{Page: 1, PageSize: 1000, Ordering: "name", IsActive: &active}
	var page Page[Customer]
	if err := get(ctx, c, "/customers/", params.Values(), &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	var customer Customer
	err := get(ctx, c, fmt.Sprintf("/customers/%d/", id), nil, &customer)
	return customer, err
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerWrite) (Customer, error) {
	var customer Customer
	err := send(ctx, c, http.MethodPost, "/customers/", in, &customer)
	return customer, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in CustomerWrite) (Customer, error) {
	var customer Customer
	err := send(ctx, c, http.MethodPut, fmt.Sprintf("/customers/%d/", id), in, &customer)
	return customer, err
}

// CustomerSales returns one page of a customer's purchase history.
func (c *Client) CustomerSales(ctx context.Context, id int64, page, pageSize int) (Page[Sale], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	var out Page[Sale]
	err := get(ctx, c, fmt.Sprintf("/customers/%d/sales/", id), q, &out)
	return out, err
}
