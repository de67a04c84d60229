package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/auth"
	"github.com/ceica/ceicacake/internal/config"
	"github.com/ceica/ceicacake/internal/database/repository"
	"github.com/ceica/ceicacake/internal/grouping"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{}
	cfg.UI.SalesPageSize = 10
	cfg.UI.CustomersPageSize = 10
	cfg.UI.CashflowPageSize = 15
	cfg.UI.HistoryPageSize = 12
	session := auth.NewSession(auth.NewTokenStore(t.TempDir()), nil)
	session.Restore()
	return New(context.Background(), cfg, nil, session, Repos{}, time.UTC, nil)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	a := newTestApp(t)
	a.state = viewSales
	a.modal = modalCheckout

	model, _ := a.Update(errMsg{api.ErrUnauthorized})
	got, ok := model.(*App)
	require.True(t, ok)
	require.Equal(t, viewLogin, got.state)
	require.Equal(t, modalNone, got.modal)
	require.NotEmpty(t, got.loginErr)
}

func TestStaleSalesResponseDiscarded(t *testing.T) {
	a := newTestApp(t)
	first := a.salesList.Begin()
	second := a.salesList.Begin()

	fresh := []grouping.SaleGroup{{Title: "Bolo"}}
	a.Update(salesMsg{seq: second, count: 1, groups: fresh})
	require.Equal(t, fresh, a.saleGroups)
	require.Equal(t, 1, a.salesList.Count())

	// the slower first request arrives after the newer one and is dropped
	a.Update(salesMsg{seq: first, count: 4, groups: []grouping.SaleGroup{{Title: "Torta"}}})
	require.Equal(t, fresh, a.saleGroups)
	require.Equal(t, 1, a.salesList.Count())
}

func TestCategoryFilterCyclesAndNarrowsLedger(t *testing.T) {
	a := newTestApp(t)
	a.state = viewCashflow
	a.cashGroups = []grouping.CashflowGroup{
		{Title: "Farinha", ValueType: api.ValueExpense, Items: []grouping.CashflowItem{
			{Entry: api.CashflowEntry{ID: 1, Category: "INSUMOS"}},
		}},
		{Title: "Venda: Bolo - Cliente: Maria", ValueType: api.ValueProfit, Items: []grouping.CashflowItem{
			{Entry: api.CashflowEntry{ID: 2, Category: "VENDA"}},
		}},
	}

	a.Update(keyPress('C'))
	require.Equal(t, "INSUMOS", a.categoryFilter)
	visible := a.visibleCashGroups()
	require.Len(t, visible, 1)
	require.Equal(t, "Farinha", visible[0].Title)

	a.Update(keyPress('C'))
	require.Equal(t, "VENDA", a.categoryFilter)

	a.Update(keyPress('C'))
	require.Empty(t, a.categoryFilter)
	require.Len(t, a.visibleCashGroups(), 2)
}

func TestApplyPresetRestoresCategory(t *testing.T) {
	a := newTestApp(t)
	a.state = viewCashflow
	a.presets = []repository.FilterPreset{{
		Name:      "Insumos de janeiro",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		ValueType: "EXPENSE",
		Category:  "INSUMOS",
	}}

	a.applyNextPreset()
	require.Equal(t, "2024-01-01", a.periodStart)
	require.Equal(t, api.ValueExpense, a.typeFilter)
	require.Equal(t, "INSUMOS", a.categoryFilter)
}

func TestEmptyingEditedOrderAsksConfirmation(t *testing.T) {
	a := newTestApp(t)
	a.state = viewSales
	group := grouping.SaleGroup{
		CustomerID:   5,
		CustomerName: "Maria",
		Members:      []api.Sale{{ID: 10}, {ID: 11}},
	}
	a.openCheckoutEdit(group)
	a.cart.Remove(1)
	a.cart.Remove(0)

	// saving with no lines left must not delete silently
	a.Update(keyPress('s'))
	require.Equal(t, modalConfirmDelete, a.modal)
	require.Equal(t, []int64{10, 11}, a.confirmIDs)

	// declining returns to the checkout with the cart intact
	a.Update(keyPress('n'))
	require.Equal(t, modalCheckout, a.modal)
	require.NotNil(t, a.cart)
}
