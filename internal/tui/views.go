package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/format"
	"github.com/ceica/ceicacake/internal/listing"
)

func (a *App) View() string {
	if a.state == viewLogin {
		return a.renderLogin()
	}

	var body string
	switch a.state {
	case viewSales:
		body = a.renderSales()
	case viewCustomers:
		body = a.renderCustomers()
	case viewCustomerDetail:
		body = a.renderCustomerDetail()
	case viewCashflow:
		body = a.renderCashflow()
	case viewDashboard:
		body = a.renderDashboard()
	default:
		body = a.renderHome()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return body
}

func (a *App) renderLogin() string {
	title := titleStyle.Render("CeicaCake")
	out := title + "\n\nEntre com sua conta:\n\n"
	out += "  " + a.usernameInput.View() + "\n"
	out += "  " + a.passwordInput.View() + "\n"
	if a.loginBusy {
		out += "\n" + mutedStyle.Render("Entrando...")
	}
	if a.loginErr != "" {
		out += "\n" + errorStyle.Render(a.loginErr)
	}
	out += "\n\n[tab] Alternar campo  [enter] Entrar  [ctrl+c] Sair"
	return out
}

func (a *App) renderHome() string {
	title := titleStyle.Render("CeicaCake - Painel")
	out := title + "\n\nBem-vindo de volta!\n\n"
	out += "[v] Vendas\n"
	out += "[c] Clientes\n"
	out += "[f] Fluxo de caixa\n"
	out += "[d] Dashboard\n\n"
	out += "[ctrl+l] Sair da conta  [q] Sair"
	return out
}

func (a *App) renderSales() string {
	title := titleStyle.Render("Vendas")
	out := title + "\n"
	if len(a.saleGroups) == 0 {
		out += mutedStyle.Render("Nenhuma venda encontrada.") + "\n"
	}
	for i, g := range a.saleGroups {
		marker := " "
		if i == a.salesCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %-30s  %-20s  %10s  %s\n",
			marker,
			format.DateTime(g.DataHour.In(a.tz)),
			clip(g.Title, 30),
			clip(g.CustomerName, 20),
			format.Money(g.Total),
			statusLabel(g.PaymentStatus))
	}
	out += a.pagination(a.salesList)
	out += "\n[n] Novo pedido  [enter] Editar  [p] Alternar pagamento  [x] Excluir  [←/→] Página  [esc] Voltar  [q] Sair"
	return out
}

func (a *App) renderCustomers() string {
	title := titleStyle.Render("Clientes")
	out := title + "\n"
	out += "Busca: " + a.searchInput.View() + "\n\n"
	if len(a.customers) == 0 {
		out += mutedStyle.Render("Nenhum cliente encontrado.") + "\n"
	}
	for i, c := range a.customers {
		marker := " "
		if i == a.custCursor {
			marker = "▶"
		}
		active := ""
		if !c.IsActive {
			active = mutedStyle.Render(" (inativo)")
		}
		out += fmt.Sprintf("%s %-24s  %-16s  compras %10s  deve %10s%s\n",
			marker,
			clip(c.Name, 24),
			format.Phone(c.PhoneNumber),
			format.Money(c.Bought),
			format.Money(c.Debt),
			active)
	}
	out += a.pagination(a.customersList)
	out += "\n[/] Buscar  [g] Ir para cliente  [enter] Detalhes  [n] Novo  [e] Editar  [a] Mostrar inativos  [←/→] Página  [esc] Voltar  [q] Sair"
	return out
}

func (a *App) renderCustomerDetail() string {
	if a.detailCustomer == nil {
		return titleStyle.Render("Cliente") + "\n" + mutedStyle.Render("Carregando...")
	}
	c := a.detailCustomer
	title := titleStyle.Render("Cliente: " + c.Name)
	out := title + "\n"
	out += fmt.Sprintf("Telefone: %s\n", format.Phone(c.PhoneNumber))
	if c.Birthday != nil {
		out += fmt.Sprintf("Aniversário: %s\n", format.Date(c.Birthday.Time))
	}
	out += fmt.Sprintf("Total comprado: %s   Em aberto: %s\n", format.Money(c.Bought), format.Money(c.Debt))
	out += "\n" + titleStyle.Render("Histórico de compras") + "\n"
	if len(a.historyGroups) == 0 {
		out += mutedStyle.Render("Nenhuma compra registrada.") + "\n"
	}
	for _, g := range a.historyGroups {
		out += fmt.Sprintf("  %s  %-30s  %10s  %s\n",
			format.DateTime(g.DataHour.In(a.tz)),
			clip(g.Title, 30),
			format.Money(g.Total),
			statusLabel(g.PaymentStatus))
	}
	out += a.pagination(a.historyList)
	out += "\n[e] Editar cliente  [←/→] Página  [esc] Voltar  [q] Sair"
	return out
}

func (a *App) renderCashflow() string {
	title := titleStyle.Render("Fluxo de caixa")
	out := title + "\n"
	if a.periodStart != "" {
		out += fmt.Sprintf("Período: %s a %s\n", a.periodStart, a.periodEnd)
	} else {
		out += "Período: todos\n"
	}
	if a.typeFilter != "" {
		out += "Tipo: " + string(a.typeFilter) + "\n"
	}
	if a.categoryFilter != "" {
		out += "Categoria: " + a.categoryFilter + "\n"
	}

	profit, expense, balance := a.cashflowSummary()
	out += fmt.Sprintf("Entradas: %s   Saídas: %s   Saldo: %s\n\n",
		profitStyle.Render(format.Money(profit)),
		expenseStyle.Render(format.Money(expense)),
		format.Money(balance))

	visible := a.visibleCashGroups()
	if len(visible) == 0 {
		out += mutedStyle.Render("Nenhum lançamento no período.") + "\n"
	}
	for i, g := range visible {
		marker := " "
		if i == a.cashCursor {
			marker = "▶"
		}
		value := format.Money(g.Total)
		if g.ValueType == api.ValueProfit {
			value = profitStyle.Render("+" + value)
		} else {
			value = expenseStyle.Render("-" + value)
		}
		out += fmt.Sprintf("%s %s  %-46s  %s\n", marker, format.Date(g.Date.Time), clip(g.Title, 46), value)
	}
	out += a.pagination(a.cashflowList)
	if len(a.presets) > 0 {
		names := make([]string, 0, len(a.presets))
		for _, p := range a.presets {
			names = append(names, p.Name)
		}
		out += "\nFiltros salvos: " + strings.Join(names, ", ")
	}
	out += "\n[n] Novo  [enter] Detalhes  [e] Editar  [t] Tipo  [C] Categoria  [[/]] Mês  [s] Salvar filtro  [o] Aplicar filtro  [←/→] Página  [esc] Voltar  [q] Sair"
	return out
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("Dashboard de vendas")
	out := title + "\n"
	if a.periodStart != "" {
		out += fmt.Sprintf("Período: %s a %s\n", a.periodStart, a.periodEnd)
	}
	if a.overview == nil {
		return out + mutedStyle.Render("Carregando...")
	}

	out += fmt.Sprintf("\nTotal vendido: %s   Pedidos: %d   Clientes: %d\n",
		format.Money(a.overview.TotalSales), a.overview.TotalOrders, a.overview.TotalCustomers)
	if a.averageTicket != nil {
		out += fmt.Sprintf("Ticket médio: %s\n", format.Money(a.averageTicket.AverageTicket))
	}
	if a.conversion != nil {
		out += fmt.Sprintf("Pagos: %d   Pendentes: %d   Conversão: %s%%\n",
			a.conversion.PaidCount, a.conversion.PendingCount, a.conversion.Rate.StringFixed(1))
	}

	if len(a.productSales) > 0 {
		out += "\n" + titleStyle.Render("Vendas por produto") + "\n"
		max := maxProductTotal(a.productSales)
		for _, row := range a.productSales {
			out += fmt.Sprintf("  %-20s %s %10s (%d un)\n",
				clip(format.Capitalize(row.Product), 20), bar(row.TotalSales, max, 24), format.Money(row.TotalSales), row.QuantitySold)
		}
	}

	if len(a.clientSales) > 0 {
		out += "\n" + titleStyle.Render("Vendas por cliente") + "\n"
		max := decimal.Zero
		for _, row := range a.clientSales {
			if row.TotalSales.GreaterThan(max) {
				max = row.TotalSales
			}
		}
		for _, row := range a.clientSales {
			out += fmt.Sprintf("  %-20s %s %10s\n",
				clip(row.CustomerName, 20), bar(row.TotalSales, max, 24), format.Money(row.TotalSales))
		}
	}

	if len(a.statusSales) > 0 {
		out += "\n" + titleStyle.Render("Por status de pagamento") + "\n"
		for _, row := range a.statusSales {
			out += fmt.Sprintf("  %-10s %10s (%d vendas)\n", row.PaymentStatus, format.Money(row.Total), row.Count)
		}
	}

	out += "\n[[/]] Mês  [r] Recarregar  [esc] Voltar  [q] Sair"
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		return titleStyle.Render("Excluir pedido?") +
			fmt.Sprintf("\n%d item(ns) serão removidos do servidor.\n[y] Sim  [n] Não", len(a.confirmIDs))

	case modalCustomerPicker:
		out := titleStyle.Render("Selecionar cliente") + "\n"
		out += "Busca: " + a.pickerQuery + "▏\n"
		if len(a.pickerRanked) == 0 {
			out += mutedStyle.Render("Nenhum cliente corresponde.") + "\n"
		}
		for i, c := range a.pickerRanked {
			marker := " "
			if i == a.pickerCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s  %s\n", marker, clip(c.Name, 30), format.Phone(c.PhoneNumber))
		}
		out += "[enter] Selecionar  [esc] Cancelar"
		return out

	case modalCheckout:
		return a.renderCheckout()

	case modalCashflowDetail:
		g, ok := a.currentCashGroup()
		if !ok {
			return ""
		}
		out := titleStyle.Render(g.Title) + "\n"
		out += fmt.Sprintf("Data: %s   Total: %s\n", format.Date(g.Date.Time), format.Money(g.Total))
		for _, item := range g.Items {
			name := item.Product
			if name == "" {
				name = item.Entry.Category
			}
			out += fmt.Sprintf("  - %-30s %10s\n", clip(name, 30), format.Money(item.Value))
		}
		out += "[esc] Fechar"
		return out

	case modalCustomerForm, modalCashflowForm, modalPresetName:
		return a.renderForm()
	}
	return ""
}

func (a *App) renderCheckout() string {
	if a.cart == nil {
		return ""
	}
	header := "Novo pedido"
	if a.cart.Editing() {
		header = "Editar pedido"
	}
	out := titleStyle.Render(header+" - "+a.cart.CustomerName) + "\n"
	out += "Pagamento: " + statusLabel(a.cart.PaymentStatus) + "\n\n"

	out += "Produtos:\n"
	for i, p := range a.products {
		marker := " "
		if i == a.productCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, p.Label)
	}
	out += "\nPreço unitário: " + a.priceBuffer + "▏\n"

	out += "\nItens do pedido:\n"
	if len(a.cart.Lines) == 0 {
		out += mutedStyle.Render("  (vazio)") + "\n"
	}
	for i, line := range a.cart.Lines {
		marker := " "
		if i == a.cartCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %dx %-24s %10s = %10s\n",
			marker, line.Quantity, clip(line.Label, 24), format.Money(line.Price), format.Money(line.Total()))
	}
	out += fmt.Sprintf("\nTotal: %s\n", format.Money(a.cart.Total()))
	out += "[enter] Adicionar produto  [tab] Item  [+/-] Quantidade  [x] Remover  [p] Pagamento  [s] Salvar  [esc] Cancelar"
	return out
}

func (a *App) renderForm() string {
	if a.form == nil {
		return ""
	}
	var header string
	switch a.form.kind {
	case modalCustomerForm:
		header = "Novo cliente"
		if a.form.editingID != 0 {
			header = "Editar cliente"
		}
	case modalCashflowForm:
		header = "Novo lançamento"
		if a.form.editingID != 0 {
			header = "Editar lançamento"
		}
	case modalPresetName:
		header = "Salvar filtro"
	}
	out := titleStyle.Render(header) + "\n"
	for i, field := range a.form.fields {
		marker := " "
		if i == a.form.cursor {
			marker = "▶"
		}
		hint := ""
		if field.hint != "" {
			hint = mutedStyle.Render("  (" + field.hint + ")")
		}
		out += fmt.Sprintf("%s %-12s %s▏%s\n", marker, field.label+":", field.value, hint)
	}
	out += "[tab] Próximo campo  [enter] Salvar  [esc] Cancelar"
	return out
}

func (a *App) pagination(s *listing.State) string {
	if s.TotalPages() <= 1 {
		return ""
	}
	return mutedStyle.Render(fmt.Sprintf("Página %d de %d (%d registros)", s.Page(), s.TotalPages(), s.Count()))
}

func bar(value, max decimal.Decimal, width int) string {
	if !max.IsPositive() {
		return strings.Repeat(" ", width)
	}
	filled := int(value.Div(max).Mul(decimal.NewFromInt(int64(width))).IntPart())
	if filled > width {
		filled = width
	}
	if filled < 1 && value.IsPositive() {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

func maxProductTotal(rows []api.ProductSales) decimal.Decimal {
	max := decimal.Zero
	for _, row := range rows {
		if row.TotalSales.GreaterThan(max) {
			max = row.TotalSales
		}
	}
	return max
}

func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
