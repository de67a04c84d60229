// Package grouping turns flat API rows into the order-centric view the
// screens present. Sales rows created together by one checkout share customer
// and timestamp; cash-flow entries synthesized from sales carry a reference
// marker in their description. Both transformations are pure and
// order-preserving: groups appear in the position of their first member.
package grouping

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceica/ceicacake/internal/api"
)

// SaleGroup is one multi-item order reconstructed from its sale rows.
type SaleGroup struct {
	CustomerID    int64
	CustomerName  string
	DataHour      time.Time
	Title         string
	Total         decimal.Decimal
	PaymentStatus api.PaymentStatus
	Members       []api.Sale
}

// MemberIDs returns the sale row ids, the unit for bulk delete and bulk
// status changes.
func (g SaleGroup) MemberIDs() []int64 {
	ids := make([]int64, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// Sales buckets rows by (customer, minute-truncated data_hour). Seconds are
// ignored: rows written sequentially by one checkout may straddle a second
// boundary but not a minute.
func Sales(sales []api.Sale) []SaleGroup {
	buckets := make(map[string]*SaleGroup)
	order := make([]string, 0, len(sales))

	for _, sale := range sales {
		minute := sale.DataHour.Minute()
		key := fmt.Sprintf("%d_%s", sale.Customer, minute.Format("2006-01-02T15:04"))
		g, ok := buckets[key]
		if !ok {
			g = &SaleGroup{
				CustomerID:    sale.Customer,
				CustomerName:  sale.CustomerName,
				DataHour:      minute,
				Total:         decimal.Zero,
				PaymentStatus: api.PaymentPaid,
			}
			buckets[key] = g
			order = append(order, key)
		}
		g.Members = append(g.Members, sale)
		g.Total = g.Total.Add(sale.LineTotal())
		if sale.PaymentStatus != api.PaymentPaid {
			g.PaymentStatus = api.PaymentPending
		}
	}

	groups := make([]SaleGroup, 0, len(order))
	for _, key := range order {
		g := buckets[key]
		g.Title = saleGroupTitle(g.Members)
		groups = append(groups, *g)
	}
	return groups
}

func saleGroupTitle(members []api.Sale) string {
	first := productDisplayName(members[0])
	if len(members) == 1 {
		return first
	}
	extra := len(members) - 1
	noun := "itens"
	if extra == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%s +%d %s", first, extra, noun)
}

func productDisplayName(s api.Sale) string {
	if s.ProductName != "" {
		return s.ProductName
	}
	return s.Product
}
