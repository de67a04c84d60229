package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/checkout"
	"github.com/ceica/ceicacake/internal/database/repository"
	"github.com/ceica/ceicacake/internal/grouping"
)

// form is a small multi-field text form rendered inside a modal.
type form struct {
	kind      modalState
	editingID int64
	fields    []formField
	cursor    int
}

type formField struct {
	label    string
	value    string
	hint     string
	required bool
}

func (f *form) current() *formField {
	return &f.fields[f.cursor]
}

func (f *form) value(label string) string {
	for _, field := range f.fields {
		if field.label == label {
			return strings.TrimSpace(field.value)
		}
	}
	return ""
}

func (f *form) missingRequired() string {
	for _, field := range f.fields {
		if field.required && strings.TrimSpace(field.value) == "" {
			return field.label
		}
	}
	return ""
}

func (a *App) openCustomerForm(c *api.Customer) {
	f := &form{kind: modalCustomerForm, fields: []formField{
		{label: "Nome", required: true},
		{label: "Telefone", hint: "somente dígitos"},
		{label: "Aniversário", hint: "AAAA-MM-DD"},
		{label: "Ativo", value: "s", hint: "s/n"},
	}}
	if c != nil {
		f.editingID = c.ID
		f.fields[0].value = c.Name
		f.fields[1].value = c.PhoneNumber
		if c.Birthday != nil {
			f.fields[2].value = c.Birthday.String()
		}
		if !c.IsActive {
			f.fields[3].value = "n"
		}
	}
	a.form = f
	a.modal = modalCustomerForm
}

func (a *App) openCashflowForm(e *api.CashflowEntry) {
	f := &form{kind: modalCashflowForm, fields: []formField{
		{label: "Categoria", required: true},
		{label: "Valor", required: true, hint: "ex. 25.50"},
		{label: "Tipo", value: "PROFIT", hint: "PROFIT/EXPENSE", required: true},
		{label: "Data", required: true, hint: "AAAA-MM-DD"},
		{label: "Descrição"},
	}}
	if e != nil {
		f.editingID = e.ID
		f.fields[0].value = e.Category
		f.fields[1].value = e.Value.String()
		f.fields[2].value = string(e.ValueType)
		f.fields[3].value = e.Date.String()
		f.fields[4].value = e.Description
	}
	a.form = f
	a.modal = modalCashflowForm
}

func (a *App) openPresetNameForm() {
	a.form = &form{kind: modalPresetName, fields: []formField{
		{label: "Nome", required: true},
	}}
	a.modal = modalPresetName
}

func (a *App) openCustomerPicker(target pickerTarget) {
	a.pickerQuery = ""
	a.pickerCursor = 0
	a.pickerNext = target
	a.pickerRanked = rankCustomers(a.cacheCustomers, "")
	a.modal = modalCustomerPicker
}

func (a *App) openCheckoutEdit(g grouping.SaleGroup) {
	a.cart = checkout.EditCart(g)
	a.cartCursor = 0
	a.productCursor = 0
	a.priceBuffer = ""
	a.modal = modalCheckout
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			ids := a.confirmIDs
			a.confirmIDs = nil
			a.confirmFrom = modalNone
			a.modal = modalNone
			return a, a.deleteGroupCmd(ids)
		case "n", "N", "esc":
			a.confirmIDs = nil
			a.modal = a.confirmFrom
			a.confirmFrom = modalNone
		}
	case modalCashflowDetail:
		if m.String() == "esc" || m.String() == "enter" {
			a.modal = modalNone
		}
	case modalCustomerPicker:
		return a.handlePickerKey(m)
	case modalCheckout:
		return a.handleCheckoutKey(m)
	case modalCustomerForm, modalCashflowForm, modalPresetName:
		return a.handleFormKey(m)
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyUp:
		if a.pickerCursor > 0 {
			a.pickerCursor--
		}
		return a, nil
	case tea.KeyDown:
		if a.pickerCursor < len(a.pickerRanked)-1 {
			a.pickerCursor++
		}
		return a, nil
	case tea.KeyEnter:
		if a.pickerCursor >= len(a.pickerRanked) {
			return a, nil
		}
		picked := a.pickerRanked[a.pickerCursor]
		a.modal = modalNone
		switch a.pickerNext {
		case pickerForCheckout:
			a.cart = checkout.NewCart(picked.ID, picked.Name)
			a.cartCursor = 0
			a.productCursor = 0
			a.priceBuffer = ""
			a.modal = modalCheckout
			return a, nil
		case pickerForDetail:
			a.state = viewCustomerDetail
			a.historyList.SetPage(1)
			return a, tea.Batch(a.loadCustomer(picked.ID), a.loadHistory(picked.ID))
		}
		return a, nil
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.pickerQuery) > 0 {
			a.pickerQuery = a.pickerQuery[:len(a.pickerQuery)-1]
		}
	case tea.KeySpace:
		a.pickerQuery += " "
	case tea.KeyRunes:
		a.pickerQuery += string(m.Runes)
	}
	a.pickerRanked = rankCustomers(a.cacheCustomers, a.pickerQuery)
	a.pickerCursor = 0
	return a, nil
}

func (a *App) handleCheckoutKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.cart == nil {
		a.modal = modalNone
		return a, nil
	}
	switch m.String() {
	case "esc":
		a.modal = modalNone
		a.cart = nil
		return a, nil
	case "up", "k":
		if a.productCursor > 0 {
			a.productCursor--
		}
		return a, nil
	case "down", "j":
		if a.productCursor < len(a.products)-1 {
			a.productCursor++
		}
		return a, nil
	case "enter":
		if a.productCursor >= len(a.products) {
			return a, nil
		}
		price, err := decimal.NewFromString(strings.TrimSpace(a.priceBuffer))
		if err != nil || !price.IsPositive() {
			return a, a.setStatus("Informe um preço válido antes de adicionar.")
		}
		p := a.products[a.productCursor]
		a.cart.Add(p.Value, p.Label, price, 1)
		a.cartCursor = len(a.cart.Lines) - 1
		a.priceBuffer = ""
		return a, nil
	case "tab":
		if len(a.cart.Lines) > 0 {
			a.cartCursor = (a.cartCursor + 1) % len(a.cart.Lines)
		}
		return a, nil
	case "+":
		if a.cartCursor < len(a.cart.Lines) {
			a.cart.SetQuantity(a.cartCursor, a.cart.Lines[a.cartCursor].Quantity+1)
		}
		return a, nil
	case "-":
		if a.cartCursor < len(a.cart.Lines) {
			a.cart.SetQuantity(a.cartCursor, a.cart.Lines[a.cartCursor].Quantity-1)
		}
		return a, nil
	case "x":
		a.cart.Remove(a.cartCursor)
		if a.cartCursor >= len(a.cart.Lines) && a.cartCursor > 0 {
			a.cartCursor--
		}
		return a, nil
	case "p":
		if a.cart.PaymentStatus == api.PaymentPaid {
			a.cart.PaymentStatus = api.PaymentPending
		} else {
			a.cart.PaymentStatus = api.PaymentPaid
		}
		return a, nil
	case "s":
		if len(a.cart.Lines) == 0 {
			if !a.cart.Editing() {
				return a, a.setStatus("O pedido precisa de pelo menos um item.")
			}
			// saving an edited order with no lines left means deleting it
			a.confirmIDs = a.cart.RemovedIDs()
			a.confirmFrom = modalCheckout
			a.modal = modalConfirmDelete
			return a, nil
		}
		return a, a.saveCartCmd(a.cart)
	case "backspace":
		if len(a.priceBuffer) > 0 {
			a.priceBuffer = a.priceBuffer[:len(a.priceBuffer)-1]
		}
		return a, nil
	}
	if m.Type == tea.KeyRunes {
		for _, r := range m.Runes {
			if (r >= '0' && r <= '9') || r == '.' {
				a.priceBuffer += string(r)
			}
		}
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		a.modal = modalNone
		return a, nil
	}
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.form = nil
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.form.cursor = (a.form.cursor + 1) % len(a.form.fields)
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.form.cursor = (a.form.cursor + len(a.form.fields) - 1) % len(a.form.fields)
		return a, nil
	case tea.KeyEnter:
		return a.submitForm()
	case tea.KeyBackspace, tea.KeyCtrlH:
		field := a.form.current()
		if len(field.value) > 0 {
			field.value = field.value[:len(field.value)-1]
		}
		return a, nil
	case tea.KeySpace:
		a.form.current().value += " "
		return a, nil
	case tea.KeyRunes:
		a.form.current().value += string(m.Runes)
		return a, nil
	}
	return a, nil
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	f := a.form
	if missing := f.missingRequired(); missing != "" {
		return a, a.setStatus("Preencha o campo obrigatório: " + missing)
	}

	switch f.kind {
	case modalCustomerForm:
		in := api.CustomerWrite{
			Name:        f.value("Nome"),
			PhoneNumber: f.value("Telefone"),
			IsActive:    !strings.EqualFold(f.value("Ativo"), "n"),
		}
		if raw := f.value("Aniversário"); raw != "" {
			var d api.Date
			if err := d.UnmarshalJSON([]byte(`"` + raw + `"`)); err != nil {
				return a, a.setStatus("Data de aniversário inválida, use AAAA-MM-DD.")
			}
			in.Birthday = &d
		}
		return a, a.saveCustomerCmd(f.editingID, in)

	case modalCashflowForm:
		value, err := decimal.NewFromString(f.value("Valor"))
		if err != nil || !value.IsPositive() {
			return a, a.setStatus("Valor inválido.")
		}
		valueType := api.ValueType(strings.ToUpper(f.value("Tipo")))
		if valueType != api.ValueProfit && valueType != api.ValueExpense {
			return a, a.setStatus("Tipo deve ser PROFIT ou EXPENSE.")
		}
		var date api.Date
		if err := date.UnmarshalJSON([]byte(`"` + f.value("Data") + `"`)); err != nil {
			return a, a.setStatus("Data inválida, use AAAA-MM-DD.")
		}
		in := api.CashflowWrite{
			Category:    f.value("Categoria"),
			Value:       value,
			ValueType:   valueType,
			Date:        date,
			Description: f.value("Descrição"),
		}
		return a, a.saveCashflowCmd(f.editingID, in)

	case modalPresetName:
		preset := repository.FilterPreset{
			ID:        uuid.NewString(),
			Name:      f.value("Nome"),
			StartDate: a.periodStart,
			EndDate:   a.periodEnd,
			ValueType: string(a.typeFilter),
			Category:  a.categoryFilter,
		}
		a.modal = modalNone
		a.form = nil
		return a, a.savePresetCmd(preset)
	}
	return a, nil
}
