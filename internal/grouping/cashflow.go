package grouping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ceica/ceicacake/internal/api"
)

// Entries synthesized from sales embed a customer reference marker in their
// free-text description. The literals match what the API writes today; when
// the API also sends source_sale_group_id the id wins and the text is only
// used for display.
const (
	saleRefMarker       = "ID-REF-"
	unknownCustomerName = "Desconhecido"
	unknownProductName  = "Produto"
	emptyDescription    = "Sem descrição"
)

var (
	customerPattern = regexp.MustCompile(`Cliente:\s+(.*?)\s+\(ID-REF-`)
	productPattern  = regexp.MustCompile(`Venda:\s+(.*?)\s+-\s+Cliente:`)
)

// CashflowItem is one entry inside a grouped ledger row, kept for the detail
// modal and for editing individual entries.
type CashflowItem struct {
	Entry   api.CashflowEntry
	Product string
	Value   decimal.Decimal
}

// CashflowGroup is one display row of the ledger: either a single entry
// passed through, or several sale-linked entries merged into one order.
type CashflowGroup struct {
	Title        string
	CustomerName string
	Date         api.Date
	ValueType    api.ValueType
	Total        decimal.Decimal
	Items        []CashflowItem
	SaleLinked   bool
}

// EntryIDs returns the ledger row ids behind this display row.
func (g CashflowGroup) EntryIDs() []int64 {
	ids := make([]int64, len(g.Items))
	for i, item := range g.Items {
		ids[i] = item.Entry.ID
	}
	return ids
}

// Cashflow merges sale-linked entries that belong to the same order. Entries
// without the marker never merge, whatever their descriptions say. Two
// passes: bucket in input order, then emit each group at its first member's
// position.
func Cashflow(entries []api.CashflowEntry) []CashflowGroup {
	buckets := make(map[string]*CashflowGroup)
	order := make([]string, 0, len(entries))

	for i, entry := range entries {
		if !saleLinked(entry) {
			key := fmt.Sprintf("solo_%d_%d", entry.ID, i)
			buckets[key] = passthroughGroup(entry)
			order = append(order, key)
			continue
		}

		customer := extract(customerPattern, entry.Description, unknownCustomerName)
		product := extract(productPattern, entry.Description, unknownProductName)

		key := groupKey(entry, customer)
		g, ok := buckets[key]
		if !ok {
			g = &CashflowGroup{
				CustomerName: customer,
				Date:         entry.Date,
				ValueType:    entry.ValueType,
				Total:        decimal.Zero,
				SaleLinked:   true,
			}
			buckets[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, CashflowItem{Entry: entry, Product: product, Value: entry.Value})
		g.Total = g.Total.Add(entry.Value)
	}

	groups := make([]CashflowGroup, 0, len(order))
	for _, key := range order {
		g := buckets[key]
		if g.SaleLinked {
			g.Title = cashflowGroupTitle(g)
		}
		groups = append(groups, *g)
	}
	return groups
}

func saleLinked(entry api.CashflowEntry) bool {
	if entry.SourceSaleGroupID != nil {
		return true
	}
	return strings.Contains(entry.Description, saleRefMarker)
}

// groupKey prefers the explicit order id over the parsed (date, customer)
// pair, so renamed customers or odd descriptions cannot split an order.
func groupKey(entry api.CashflowEntry, customer string) string {
	if entry.SourceSaleGroupID != nil {
		return fmt.Sprintf("gid_%d", *entry.SourceSaleGroupID)
	}
	return fmt.Sprintf("sale_%s_%s", entry.Date.String(), customer)
}

func passthroughGroup(entry api.CashflowEntry) *CashflowGroup {
	title := entry.Description
	if title == "" {
		title = emptyDescription
	}
	return &CashflowGroup{
		Title:     title,
		Date:      entry.Date,
		ValueType: entry.ValueType,
		Total:     entry.Value,
		Items:     []CashflowItem{{Entry: entry, Value: entry.Value}},
	}
}

func cashflowGroupTitle(g *CashflowGroup) string {
	if len(g.Items) == 1 {
		return fmt.Sprintf("Venda: %s - Cliente: %s", g.Items[0].Product, g.CustomerName)
	}
	return fmt.Sprintf("Venda em conjunto (%d itens) - Cliente: %s", len(g.Items), g.CustomerName)
}

func extract(re *regexp.Regexp, text, fallback string) string {
	match := re.FindStringSubmatch(text)
	if len(match) < 2 || match[1] == "" {
		return fallback
	}
	return match[1]
}
