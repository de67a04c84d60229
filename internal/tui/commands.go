package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/checkout"
	"github.com/ceica/ceicacake/internal/database/repository"
	"github.com/ceica/ceicacake/internal/grouping"
)

func (a *App) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.session.Login(a.ctx, a.client, username, password)
		return loginDoneMsg{err: err}
	}
}

func (a *App) loadSales() tea.Cmd {
	seq := a.salesList.Begin()
	params := api.ListParams{
		Page:     a.salesList.Page(),
		PageSize: a.salesList.PageSize(),
		Ordering: "-data_hour",
	}
	return func() tea.Msg {
		page, err := a.client.ListSales(a.ctx, params)
		if err != nil {
			return errMsg{err}
		}
		return salesMsg{seq: seq, count: page.Count, groups: grouping.Sales(page.Results)}
	}
}

func (a *App) loadCustomers() tea.Cmd {
	seq := a.customersList.Begin()
	params := api.ListParams{
		Page:     a.customersList.Page(),
		PageSize: a.customersList.PageSize(),
		Ordering: a.customersList.Ordering(),
		Search:   a.customersList.Search(),
		IsActive: a.customersList.IsActive(),
	}
	return func() tea.Msg {
		page, err := a.client.ListCustomers(a.ctx, params)
		if err != nil {
			return errMsg{err}
		}
		return customersMsg{seq: seq, count: page.Count, customers: page.Results}
	}
}

func (a *App) loadCustomer(id int64) tea.Cmd {
	return func() tea.Msg {
		customer, err := a.client.GetCustomer(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return customerMsg{customer: customer}
	}
}

func (a *App) loadHistory(customerID int64) tea.Cmd {
	seq := a.historyList.Begin()
	page, pageSize := a.historyList.Page(), a.historyList.PageSize()
	return func() tea.Msg {
		result, err := a.client.CustomerSales(a.ctx, customerID, page, pageSize)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg{seq: seq, count: result.Count, groups: grouping.Sales(result.Results)}
	}
}

func (a *App) loadCashflow() tea.Cmd {
	seq := a.cashflowList.Begin()
	start, end := a.cashflowList.Period()
	params := api.ListParams{
		Page:      a.cashflowList.Page(),
		PageSize:  a.cashflowList.PageSize(),
		Ordering:  "-date",
		StartDate: start,
		EndDate:   end,
	}
	return func() tea.Msg {
		page, err := a.client.ListCashflow(a.ctx, params)
		if err != nil {
			return errMsg{err}
		}
		return cashflowMsg{seq: seq, count: page.Count, groups: grouping.Cashflow(page.Results)}
	}
}

func (a *App) loadDashboard() tea.Cmd {
	start, end := a.periodStart, a.periodEnd
	return func() tea.Msg {
		overview, err := a.client.SalesOverview(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		byProduct, err := a.client.SalesByProduct(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		byClient, err := a.client.SalesByClient(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		byStatus, err := a.client.SalesByPaymentStatus(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		conversion, err := a.client.SalesConversion(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		ticket, err := a.client.SalesAverageTicket(a.ctx, start, end)
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg{
			overview:      &overview,
			byProduct:     byProduct,
			byClient:      byClient,
			byStatus:      byStatus,
			conversion:    &conversion,
			averageTicket: &ticket,
		}
	}
}

// refreshReferenceData pulls the full customer and product lists from the API
// and replaces the local cache, then reports the fresh snapshot.
func (a *App) refreshReferenceData() tea.Cmd {
	return func() tea.Msg {
		customers, err := a.client.AllCustomers(a.ctx)
		if err != nil {
			// keep whatever the cache has; the pickers still work
			return errMsg{err}
		}
		products, err := a.client.Products(a.ctx)
		if err != nil {
			return errMsg{err}
		}

		cached := make([]repository.CachedCustomer, 0, len(customers))
		for _, c := range customers {
			cached = append(cached, repository.CachedCustomer{
				ID:          c.ID,
				Name:        c.Name,
				PhoneNumber: c.PhoneNumber,
				IsActive:    c.IsActive,
			})
		}
		cachedProducts := make([]repository.CachedProduct, 0, len(products))
		for _, p := range products {
			cachedProducts = append(cachedProducts, repository.CachedProduct{Value: p.Value, Label: p.Label})
		}

		if a.repos.Customers != nil {
			if err := a.repos.Customers.ReplaceAll(a.ctx, cached); err != nil {
				return errMsg{err}
			}
		}
		if a.repos.Products != nil {
			if err := a.repos.Products.ReplaceAll(a.ctx, cachedProducts); err != nil {
				return errMsg{err}
			}
		}
		return referenceDataMsg{products: cachedProducts, customers: cached}
	}
}

// loadCachedReferenceData serves the last known snapshot immediately, before
// the network refresh lands.
func (a *App) loadCachedReferenceData() tea.Cmd {
	return func() tea.Msg {
		if a.repos.Customers == nil || a.repos.Products == nil {
			return nil
		}
		customers, err := a.repos.Customers.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		products, err := a.repos.Products.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		if len(customers) == 0 && len(products) == 0 {
			return nil
		}
		return referenceDataMsg{products: products, customers: customers}
	}
}

func (a *App) loadPresets() tea.Cmd {
	return func() tea.Msg {
		if a.repos.Presets == nil {
			return presetsMsg{}
		}
		presets, err := a.repos.Presets.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return presetsMsg{presets: presets}
	}
}

func (a *App) savePresetCmd(p repository.FilterPreset) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.repos.Presets == nil {
				return nil
			}
			if err := a.repos.Presets.Upsert(a.ctx, p); err != nil {
				return errMsg{err}
			}
			return statusMsg("Filtro salvo.")
		},
		a.loadPresets(),
	)
}

func (a *App) saveCartCmd(cart *checkout.Cart) tea.Cmd {
	return func() tea.Msg {
		result, err := checkout.Save(a.ctx, a.client, cart)
		if err != nil {
			return errMsg{err}
		}
		return batchDoneMsg{result: result}
	}
}

func (a *App) deleteGroupCmd(ids []int64) tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg{result: checkout.DeleteGroup(a.ctx, a.client, ids)}
	}
}

func (a *App) setGroupStatusCmd(ids []int64, status api.PaymentStatus) tea.Cmd {
	return func() tea.Msg {
		return batchDoneMsg{result: checkout.SetGroupStatus(a.ctx, a.client, ids, status)}
	}
}

func (a *App) saveCashflowCmd(id int64, in api.CashflowWrite) tea.Cmd {
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = a.client.CreateCashflow(a.ctx, in)
		} else {
			_, err = a.client.UpdateCashflow(a.ctx, id, in)
		}
		if err != nil {
			return errMsg{err}
		}
		return savedMsg("Lançamento salvo.")
	}
}

func (a *App) saveCustomerCmd(id int64, in api.CustomerWrite) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			var err error
			if id == 0 {
				_, err = a.client.CreateCustomer(a.ctx, in)
			} else {
				_, err = a.client.UpdateCustomer(a.ctx, id, in)
			}
			if err != nil {
				return errMsg{err}
			}
			return savedMsg("Cliente salvo.")
		},
		a.refreshReferenceData(),
	)
}
