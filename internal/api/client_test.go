package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, staticToken(token), nil)
}

func TestBearerHeaderInjected(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":0,"results":[]}`))
	})

	_, err := client.ListSales(context.Background(), ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestUnauthorizedFiresHookOnce(t *testing.T) {
	client := newTestClient(t, "expired", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	hookCalls := 0
	client.SetUnauthorizedHook(func() { hookCalls++ })

	_, err := client.ListCustomers(context.Background(), ListParams{Page: 1})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, 1, hookCalls)
}

func TestLoginInvalidCredentialsSkipsHook(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/authentication/token/", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	})
	hookCalls := 0
	client.SetUnauthorizedHook(func() { hookCalls++ })

	_, err := client.Login(context.Background(), "user", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, hookCalls)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"acc","refresh":"ref"}`))
	})

	pair, err := client.Login(context.Background(), "user", "pass")
	require.NoError(t, err)
	require.Equal(t, "acc", pair.Access)
	require.Equal(t, "ref", pair.Refresh)
}

func TestPageEnvelopeDecoded(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "15", r.URL.Query().Get("page_size"))
		require.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":31,"results":[
			{"id":7,"category":"VENDA","value":"25.00","value_type":"PROFIT",
			 "date":"2024-01-02","description":"Venda: Bolo - Cliente: Maria (ID-REF-42)"}
		]}`))
	})

	page, err := client.ListCashflow(context.Background(), ListParams{
		Page: 2, PageSize: 15, StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	require.Equal(t, 31, page.Count)
	require.Len(t, page.Results, 1)
	require.Equal(t, int64(7), page.Results[0].ID)
	require.Equal(t, ValueProfit, page.Results[0].ValueType)
	require.True(t, page.Results[0].Value.Equal(decimal.NewFromInt(25)))
}

func TestDashboardEndpointPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/sales-by-") {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	_, err := client.SalesByProduct(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	_, err = client.SalesByClient(ctx, "", "")
	require.NoError(t, err)
	_, err = client.SalesByPeriod(ctx, "", "")
	require.NoError(t, err)
	_, err = client.SalesOverview(ctx, "", "")
	require.NoError(t, err)
	_, err = client.SalesConversion(ctx, "", "")
	require.NoError(t, err)
	_, err = client.SalesByPaymentStatus(ctx, "", "")
	require.NoError(t, err)
	_, err = client.SalesAverageTicket(ctx, "", "")
	require.NoError(t, err)

	// the dashboard endpoints live at the API root, not under a subpath
	require.Equal(t, []string{
		"/sales-by-product/",
		"/sales-by-client/",
		"/sales-by-period/",
		"/sales-overview/",
		"/sales-conversion/",
		"/sales-by-payment-status/",
		"/sales-average-ticket/",
	}, paths)
}

func TestTransportErrorMapsToUnreachable(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil)

	_, err := client.ListSales(context.Background(), ListParams{Page: 1})
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"quantidade inválida"}`))
	})

	_, err := client.CreateSale(context.Background(), SaleWrite{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.Code)
	require.Equal(t, "quantidade inválida", statusErr.Detail)
}

func TestLenientDatetimeParsing(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":2,"results":[
			{"id":1,"product":"BOLO","price":"10.00","quantity":1,"customer":5,
			 "data_hour":"2024-03-01T14:30","payment_status":"PAGO"},
			{"id":2,"product":"TORTA","price":"15.00","quantity":1,"customer":5,
			 "data_hour":"2024-03-01T14:30:45","payment_status":"PENDENTE"}
		]}`))
	})

	page, err := client.ListSales(context.Background(), ListParams{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	require.Equal(t, page.Results[0].DataHour.Minute(), page.Results[1].DataHour.Minute())
}
