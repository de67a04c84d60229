package grouping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ceica/ceicacake/internal/api"
)

func entry(id int64, value, date, description string) api.CashflowEntry {
	v, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	var d api.Date
	if err := d.UnmarshalJSON([]byte(`"` + date + `"`)); err != nil {
		panic(err)
	}
	return api.CashflowEntry{
		ID: id, Category: "VENDA", Value: v,
		ValueType: api.ValueProfit, Date: d, Description: description,
	}
}

func TestSingleSaleEntryTitleAndCustomer(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "25.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)"),
	})

	require.Len(t, groups, 1)
	g := groups[0]
	require.True(t, g.SaleLinked)
	require.Equal(t, "Maria", g.CustomerName)
	require.Equal(t, "Venda: Bolo - Cliente: Maria", g.Title)
	require.Len(t, g.Items, 1)
	require.Equal(t, "Bolo", g.Items[0].Product)
	require.True(t, g.Total.Equal(decimal.NewFromInt(25)))
}

func TestSameDayCustomerEntriesMerge(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "10.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)"),
		entry(2, "15.00", "2024-01-02", "Venda: Torta - Cliente: Maria (ID-REF-42)"),
	})

	require.Len(t, groups, 1)
	g := groups[0]
	require.Equal(t, "Venda em conjunto (2 itens) - Cliente: Maria", g.Title)
	require.True(t, g.Total.Equal(decimal.NewFromInt(25)))
	require.Equal(t, []int64{1, 2}, g.EntryIDs())
	require.Equal(t, "Bolo", g.Items[0].Product)
	require.Equal(t, "Torta", g.Items[1].Product)
}

func TestDifferentDaysNeverMerge(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "10.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)"),
		entry(2, "15.00", "2024-01-03", "Venda: Torta - Cliente: Maria (ID-REF-42)"),
	})
	require.Len(t, groups, 2)
}

func TestPlainEntriesNeverMerge(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "50.00", "2024-01-02", "Compra de farinha"),
		entry(2, "50.00", "2024-01-02", "Compra de farinha"),
	})

	require.Len(t, groups, 2)
	require.False(t, groups[0].SaleLinked)
	require.Equal(t, "Compra de farinha", groups[0].Title)
}

func TestEmptyDescriptionFallback(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{entry(1, "5.00", "2024-01-02", "")})
	require.Equal(t, "Sem descrição", groups[0].Title)
}

func TestMarkerWithUnparseableTextUsesFallbacks(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "9.00", "2024-01-02", "pagamento ID-REF-77 avulso"),
	})

	require.Len(t, groups, 1)
	g := groups[0]
	require.True(t, g.SaleLinked)
	require.Equal(t, "Desconhecido", g.CustomerName)
	require.Equal(t, "Venda: Produto - Cliente: Desconhecido", g.Title)
}

func TestExplicitGroupIDWinsOverText(t *testing.T) {
	gid1, gid2 := int64(100), int64(200)
	a := entry(1, "10.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)")
	a.SourceSaleGroupID = &gid1
	b := entry(2, "15.00", "2024-01-02", "Venda: Torta - Cliente: Maria (ID-REF-42)")
	b.SourceSaleGroupID = &gid2

	// same date and customer text, distinct order ids: kept apart
	groups := Cashflow([]api.CashflowEntry{a, b})
	require.Len(t, groups, 2)
}

func TestExplicitGroupIDMergesRenamedCustomer(t *testing.T) {
	gid := int64(100)
	a := entry(1, "10.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)")
	a.SourceSaleGroupID = &gid
	b := entry(2, "15.00", "2024-01-02", "Venda: Torta - Cliente: Maria Silva (ID-REF-42)")
	b.SourceSaleGroupID = &gid

	groups := Cashflow([]api.CashflowEntry{a, b})
	require.Len(t, groups, 1)
	require.True(t, groups[0].Total.Equal(decimal.NewFromInt(25)))
}

func TestGroupsPreserveFirstMemberPosition(t *testing.T) {
	groups := Cashflow([]api.CashflowEntry{
		entry(1, "10.00", "2024-01-02", "Venda: Bolo - Cliente: Maria (ID-REF-42)"),
		entry(2, "99.00", "2024-01-02", "Conta de luz"),
		entry(3, "15.00", "2024-01-02", "Venda: Torta - Cliente: Maria (ID-REF-42)"),
	})

	require.Len(t, groups, 2)
	require.True(t, groups[0].SaleLinked)
	require.Len(t, groups[0].Items, 2)
	require.Equal(t, "Conta de luz", groups[1].Title)
}
