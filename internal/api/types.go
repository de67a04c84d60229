package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the wire value used by the sales endpoints.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAGO"
	PaymentPending PaymentStatus = "PENDENTE"
)

// ValueType distinguishes cash-flow entries.
type ValueType string

const (
	ValueProfit  ValueType = "PROFIT"
	ValueExpense ValueType = "EXPENSE"
)

// Time accepts the datetime layouts the API emits: RFC3339, second precision
// and minute precision without a zone.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse datetime %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

// Minute truncates to minute precision, the granularity the sales grouping
// relies on.
func (t Time) Minute() time.Time {
	return t.Truncate(time.Minute)
}

// Date is a calendar date in the API's YYYY-MM-DD form.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q", s)
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Sale is one persisted sale row. A multi-item checkout creates one row per
// line item; rows from the same checkout share customer and data_hour.
type Sale struct {
	ID            int64           `json:"id"`
	Product       string          `json:"product"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	Customer      int64           `json:"customer"`
	CustomerName  string          `json:"customer_name"`
	DataHour      Time            `json:"data_hour"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
}

// LineTotal recomputes price × quantity; the server-provided Total is not
// trusted for group sums.
func (s Sale) LineTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(s.Quantity))
}

// CashflowEntry is one ledger row. Entries synthesized from sales carry a
// marker inside Description; newer API revisions also set SourceSaleGroupID.
type CashflowEntry struct {
	ID                int64           `json:"id"`
	Category          string          `json:"category"`
	Value             decimal.Decimal `json:"value"`
	ValueType         ValueType       `json:"value_type"`
	Date              Date            `json:"date"`
	Description       string          `json:"description"`
	SourceSaleGroupID *int64          `json:"source_sale_group_id,omitempty"`
	CreatedAt         Time            `json:"created_at"`
	UpdatedAt         Time            `json:"updated_at"`
}

// Customer aggregates (Bought, Debt) are maintained server side and read-only
// here.
type Customer struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phone_number"`
	Birthday    *Date           `json:"birthday"`
	IsActive    bool            `json:"is_active"`
	Bought      decimal.Decimal `json:"bought"`
	Debt        decimal.Decimal `json:"debt"`
}

// Product is a code/label pair used to populate form dropdowns.
type Product struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TokenPair is the token endpoint response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Page is the envelope every paginated collection endpoint returns.
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// CheckoutItem is one cart line inside a checkout request.
type CheckoutItem struct {
	Product  string          `json:"product"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// CheckoutRequest creates every line of a multi-item order in one call.
type CheckoutRequest struct {
	Customer      int64          `json:"customer"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	Items         []CheckoutItem `json:"items"`
}

// SaleWrite is the payload for creating or replacing a single sale row.
type SaleWrite struct {
	Product       string          `json:"product"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int64           `json:"quantity"`
	Customer      int64           `json:"customer"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	DataHour      *Time           `json:"data_hour,omitempty"`
}

// CashflowWrite is the payload for creating or updating a ledger entry.
type CashflowWrite struct {
	Category    string          `json:"category"`
	Value       decimal.Decimal `json:"value"`
	ValueType   ValueType       `json:"value_type"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
}

// CustomerWrite is the payload for creating or updating a customer.
type CustomerWrite struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Birthday    *Date  `json:"birthday"`
	IsActive    bool   `json:"is_active"`
}

// ProductSales is a row of /sales-by-product/ and /sales-by-period/.
type ProductSales struct {
	Product      string          `json:"product"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	QuantitySold int64           `json:"quantity_sold"`
}

// ClientSales is a row of /sales-by-client/.
type ClientSales struct {
	CustomerName string          `json:"customer__name"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}

// StatusSales is a row of /sales-by-payment-status/.
type StatusSales struct {
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
	Count         int64           `json:"count"`
}

// Overview is the /sales-overview/ summary.
type Overview struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int64           `json:"total_orders"`
	TotalCustomers int64           `json:"total_customers"`
}

// Conversion is the /sales-conversion/ summary.
type Conversion struct {
	PaidCount    int64           `json:"paid_count"`
	PendingCount int64           `json:"pending_count"`
	Rate         decimal.Decimal `json:"rate"`
}

// AverageTicket is the /sales-average-ticket/ summary.
type AverageTicket struct {
	AverageTicket decimal.Decimal `json:"average_ticket"`
}
