package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/grouping"
	"github.com/ceica/ceicacake/internal/listing"
)

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab", "shift+tab", "up", "down":
		a.loginFocus = (a.loginFocus + 1) % 2
		if a.loginFocus == 0 {
			a.usernameInput.Focus()
			a.passwordInput.Blur()
		} else {
			a.passwordInput.Focus()
			a.usernameInput.Blur()
		}
		return a, textinput.Blink
	case "enter":
		username := strings.TrimSpace(a.usernameInput.Value())
		password := a.passwordInput.Value()
		if username == "" || password == "" {
			a.loginErr = "Preencha usuário e senha."
			return a, nil
		}
		if a.loginBusy {
			return a, nil
		}
		a.loginBusy = true
		a.loginErr = ""
		return a, a.loginCmd(username, password)
	}

	var cmd tea.Cmd
	if a.loginFocus == 0 {
		a.usernameInput, cmd = a.usernameInput.Update(m)
	} else {
		a.passwordInput, cmd = a.passwordInput.Update(m)
	}
	return a, cmd
}

func (a *App) handleViewKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.state == viewCustomers && a.searchInput.Focused() {
		return a.handleSearchKey(m)
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "v":
		a.state = viewSales
		a.status = ""
		return a, a.loadSales()
	case "c":
		a.state = viewCustomers
		a.status = ""
		return a, a.loadCustomers()
	case "f":
		a.state = viewCashflow
		a.status = ""
		return a, tea.Batch(a.loadCashflow(), a.loadPresets())
	case "d":
		a.state = viewDashboard
		a.status = ""
		return a, a.loadDashboard()
	case "esc":
		if a.state == viewCustomerDetail {
			a.state = viewCustomers
			return a, a.loadCustomers()
		}
		a.state = viewHome
		return a, nil
	case "ctrl+l":
		a.session.Logout()
		a.state = viewLogin
		a.usernameInput.Focus()
		return a, textinput.Blink
	}

	switch a.state {
	case viewSales:
		return a.handleSalesKey(m)
	case viewCustomers:
		return a.handleCustomersKey(m)
	case viewCustomerDetail:
		return a.handleDetailKey(m)
	case viewCashflow:
		return a.handleCashflowKey(m)
	case viewDashboard:
		return a.handleDashboardKey(m)
	}
	return a, nil
}

func (a *App) handleSalesKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.salesCursor > 0 {
			a.salesCursor--
		}
	case "down", "j":
		if a.salesCursor < len(a.saleGroups)-1 {
			a.salesCursor++
		}
	case "left", "h":
		if a.salesList.PrevPage() {
			return a, a.loadSales()
		}
	case "right", "l":
		if a.salesList.NextPage() {
			return a, a.loadSales()
		}
	case "n":
		a.openCustomerPicker(pickerForCheckout)
	case "enter":
		if g, ok := a.currentSaleGroup(); ok {
			a.openCheckoutEdit(g)
		}
	case "p":
		if g, ok := a.currentSaleGroup(); ok {
			next := api.PaymentPaid
			if g.PaymentStatus == api.PaymentPaid {
				next = api.PaymentPending
			}
			return a, a.setGroupStatusCmd(g.MemberIDs(), next)
		}
	case "x", "backspace", "delete":
		if g, ok := a.currentSaleGroup(); ok {
			a.confirmIDs = g.MemberIDs()
			a.modal = modalConfirmDelete
		}
	}
	return a, nil
}

func (a *App) handleCustomersKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "/":
		a.searchInput.Focus()
		return a, textinput.Blink
	case "up", "k":
		if a.custCursor > 0 {
			a.custCursor--
		}
	case "down", "j":
		if a.custCursor < len(a.customers)-1 {
			a.custCursor++
		}
	case "left", "h":
		if a.customersList.PrevPage() {
			return a, a.loadCustomers()
		}
	case "right", "l":
		if a.customersList.NextPage() {
			return a, a.loadCustomers()
		}
	case "a":
		a.showInactive = !a.showInactive
		if a.showInactive {
			a.customersList.SetIsActive(nil)
		} else {
			active := true
			a.customersList.SetIsActive(&active)
		}
		return a, a.loadCustomers()
	case "n":
		a.openCustomerForm(nil)
	case "g":
		a.openCustomerPicker(pickerForDetail)
	case "e":
		if c, ok := a.currentCustomer(); ok {
			a.openCustomerForm(&c)
		}
	case "enter":
		if c, ok := a.currentCustomer(); ok {
			a.state = viewCustomerDetail
			a.historyList.SetPage(1)
			return a, tea.Batch(a.loadCustomer(c.ID), a.loadHistory(c.ID))
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.searchInput.Blur()
		a.customersList.SetSearch(a.searchInput.Value())
		return a, a.loadCustomers()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(m)

	// debounce: only the newest keystroke's tick fires a request
	a.searchToken++
	token := a.searchToken
	debounce := tea.Tick(listing.DebounceInterval, func(time.Time) tea.Msg {
		return searchTickMsg(token)
	})
	return a, tea.Batch(cmd, debounce)
}

func (a *App) handleDetailKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.detailCustomer == nil {
		return a, nil
	}
	switch m.String() {
	case "left", "h":
		if a.historyList.PrevPage() {
			return a, a.loadHistory(a.detailCustomer.ID)
		}
	case "right", "l":
		if a.historyList.NextPage() {
			return a, a.loadHistory(a.detailCustomer.ID)
		}
	case "e":
		a.openCustomerForm(a.detailCustomer)
	}
	return a, nil
}

func (a *App) handleCashflowKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "up", "k":
		if a.cashCursor > 0 {
			a.cashCursor--
		}
	case "down", "j":
		if a.cashCursor < len(a.visibleCashGroups())-1 {
			a.cashCursor++
		}
	case "left":
		if a.cashflowList.PrevPage() {
			return a, a.loadCashflow()
		}
	case "right":
		if a.cashflowList.NextPage() {
			return a, a.loadCashflow()
		}
	case "[":
		a.shiftPeriod(-1)
		return a, a.loadCashflow()
	case "]":
		a.shiftPeriod(1)
		return a, a.loadCashflow()
	case "t":
		switch a.typeFilter {
		case "":
			a.typeFilter = api.ValueProfit
		case api.ValueProfit:
			a.typeFilter = api.ValueExpense
		default:
			a.typeFilter = ""
		}
		a.cashCursor = 0
	case "C":
		a.categoryFilter = nextCategory(a.cashflowCategories(), a.categoryFilter)
		a.cashCursor = 0
	case "n":
		a.openCashflowForm(nil)
	case "e":
		if g, ok := a.currentCashGroup(); ok && len(g.Items) == 1 {
			a.openCashflowForm(&g.Items[0].Entry)
		}
	case "enter":
		if _, ok := a.currentCashGroup(); ok {
			a.modal = modalCashflowDetail
		}
	case "s":
		a.openPresetNameForm()
	case "o":
		if len(a.presets) > 0 {
			return a, a.applyNextPreset()
		}
	}
	return a, nil
}

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "[":
		a.shiftPeriod(-1)
		return a, a.loadDashboard()
	case "]":
		a.shiftPeriod(1)
		return a, a.loadDashboard()
	case "r":
		return a, a.loadDashboard()
	}
	return a, nil
}

// shiftPeriod moves the selected month window. An empty period starts from
// the current month.
func (a *App) shiftPeriod(months int) {
	base := time.Now().In(a.tz)
	if a.periodStart != "" {
		if parsed, err := time.Parse("2006-01-02", a.periodStart); err == nil {
			base = parsed
		}
	}
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1)
	a.periodStart = first.Format("2006-01-02")
	a.periodEnd = last.Format("2006-01-02")
	a.cashflowList.SetPeriod(a.periodStart, a.periodEnd)
}

// applyNextPreset cycles through the saved filter presets.
func (a *App) applyNextPreset() tea.Cmd {
	current := -1
	for i, p := range a.presets {
		if p.StartDate == a.periodStart && p.EndDate == a.periodEnd {
			current = i
			break
		}
	}
	next := a.presets[(current+1)%len(a.presets)]
	a.periodStart = next.StartDate
	a.periodEnd = next.EndDate
	a.typeFilter = api.ValueType(next.ValueType)
	a.categoryFilter = next.Category
	a.cashCursor = 0
	a.cashflowList.SetPeriod(next.StartDate, next.EndDate)
	return tea.Batch(a.setStatus("Filtro aplicado: "+next.Name), a.loadCashflow())
}

func (a *App) currentSaleGroup() (grouping.SaleGroup, bool) {
	if a.salesCursor < 0 || a.salesCursor >= len(a.saleGroups) {
		return grouping.SaleGroup{}, false
	}
	return a.saleGroups[a.salesCursor], true
}

func (a *App) currentCashGroup() (grouping.CashflowGroup, bool) {
	visible := a.visibleCashGroups()
	if a.cashCursor < 0 || a.cashCursor >= len(visible) {
		return grouping.CashflowGroup{}, false
	}
	return visible[a.cashCursor], true
}

// visibleCashGroups applies the client-side type and category filters to the
// loaded page.
func (a *App) visibleCashGroups() []grouping.CashflowGroup {
	if a.typeFilter == "" && a.categoryFilter == "" {
		return a.cashGroups
	}
	var out []grouping.CashflowGroup
	for _, g := range a.cashGroups {
		if a.typeFilter != "" && g.ValueType != a.typeFilter {
			continue
		}
		if a.categoryFilter != "" && !groupHasCategory(g, a.categoryFilter) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func groupHasCategory(g grouping.CashflowGroup, category string) bool {
	for _, item := range g.Items {
		if item.Entry.Category == category {
			return true
		}
	}
	return false
}

// cashflowCategories lists the distinct categories on the loaded page, in
// first-seen order.
func (a *App) cashflowCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range a.cashGroups {
		for _, item := range g.Items {
			c := item.Entry.Category
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// nextCategory advances the cycle: all entries, then each category in turn,
// then back to all.
func nextCategory(categories []string, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	for i, c := range categories {
		if c == current && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

func (a *App) currentCustomer() (api.Customer, bool) {
	if a.custCursor < 0 || a.custCursor >= len(a.customers) {
		return api.Customer{}, false
	}
	return a.customers[a.custCursor], true
}
