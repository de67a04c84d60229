package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ceica/ceicacake/internal/api"
	"github.com/ceica/ceicacake/internal/auth"
	"github.com/ceica/ceicacake/internal/checkout"
	"github.com/ceica/ceicacake/internal/config"
	"github.com/ceica/ceicacake/internal/database/repository"
	"github.com/ceica/ceicacake/internal/grouping"
	"github.com/ceica/ceicacake/internal/listing"
)

// App ties together views.
type App struct {
	ctx     context.Context
	cfg     config.Config
	client  *api.Client
	session *auth.Session
	repos   Repos
	tz      *time.Location
	log     *zap.Logger

	state appState
	modal modalState

	// login
	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loginBusy     bool
	loginErr      string

	// sales
	salesList   *listing.State
	saleGroups  []grouping.SaleGroup
	salesCursor int

	// customers
	customersList *listing.State
	customers     []api.Customer
	custCursor    int
	searchInput   textinput.Model
	searchToken   int
	showInactive  bool

	// customer detail
	detailCustomer *api.Customer
	historyList    *listing.State
	historyGroups  []grouping.SaleGroup

	// cashflow
	cashflowList   *listing.State
	cashGroups     []grouping.CashflowGroup
	cashCursor     int
	periodStart    string
	periodEnd      string
	typeFilter     api.ValueType
	categoryFilter string
	presets        []repository.FilterPreset

	// dashboard
	overview      *api.Overview
	productSales  []api.ProductSales
	clientSales   []api.ClientSales
	statusSales   []api.StatusSales
	conversion    *api.Conversion
	averageTicket *api.AverageTicket

	// reference data, refreshed from the API and cached locally
	products       []repository.CachedProduct
	cacheCustomers []repository.CachedCustomer

	// checkout modal
	cart          *checkout.Cart
	cartCursor    int
	productCursor int
	priceBuffer   string

	// generic form modal
	form        *form
	confirmIDs  []int64
	confirmFrom modalState

	// customer picker modal
	pickerQuery  string
	pickerRanked []repository.CachedCustomer
	pickerCursor int
	pickerNext   pickerTarget

	status      string
	statusToken int
}

// Repos is the local cache layer.
type Repos struct {
	Customers *repository.CustomerCacheRepo
	Products  *repository.ProductCacheRepo
	Presets   *repository.PresetRepo
}

type appState string

const (
	viewLogin          appState = "login"
	viewHome           appState = "home"
	viewSales          appState = "sales"
	viewCustomers      appState = "customers"
	viewCustomerDetail appState = "customerDetail"
	viewCashflow       appState = "cashflow"
	viewDashboard      appState = "dashboard"
)

type modalState string

const (
	modalNone           modalState = ""
	modalCheckout       modalState = "checkout"
	modalCashflowForm   modalState = "cashflowForm"
	modalCustomerForm   modalState = "customerForm"
	modalCashflowDetail modalState = "cashflowDetail"
	modalConfirmDelete  modalState = "confirmDelete"
	modalCustomerPicker modalState = "customerPicker"
	modalPresetName     modalState = "presetName"
)

// pickerTarget says what the customer picker feeds into.
type pickerTarget string

const (
	pickerForCheckout pickerTarget = "checkout"
	pickerForDetail   pickerTarget = "detail"
)

func New(ctx context.Context, cfg config.Config, client *api.Client, session *auth.Session, repos Repos, tz *time.Location, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if tz == nil {
		tz = time.Local
	}

	username := textinput.New()
	username.Placeholder = "usuário"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "senha"
	password.EchoMode = textinput.EchoPassword
	search := textinput.New()
	search.Placeholder = "buscar cliente"

	state := viewLogin
	if session.State() == auth.StateAuthenticated {
		state = viewHome
	}

	return &App{
		ctx:           ctx,
		cfg:           cfg,
		client:        client,
		session:       session,
		repos:         repos,
		tz:            tz,
		log:           log,
		state:         state,
		usernameInput: username,
		passwordInput: password,
		searchInput:   search,
		salesList:     listing.New(cfg.UI.SalesPageSize),
		customersList: listing.New(cfg.UI.CustomersPageSize),
		cashflowList:  listing.New(cfg.UI.CashflowPageSize),
		historyList:   listing.New(cfg.UI.HistoryPageSize),
	}
}

func (a *App) Init() tea.Cmd {
	if a.state == viewLogin {
		return textinput.Blink
	}
	return tea.Batch(a.refreshReferenceData(), a.loadCachedReferenceData())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.state == viewLogin {
			return a.handleLoginKey(m)
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleViewKey(m)

	case loginDoneMsg:
		a.loginBusy = false
		if m.err != nil {
			a.loginErr = loginErrorText(m.err)
			return a, nil
		}
		a.loginErr = ""
		a.passwordInput.SetValue("")
		a.state = viewHome
		return a, tea.Batch(a.refreshReferenceData(), a.loadCachedReferenceData())

	case salesMsg:
		if !a.salesList.Accept(m.seq) {
			return a, nil
		}
		a.salesList.SetCount(m.count)
		a.saleGroups = m.groups
		if a.salesCursor >= len(a.saleGroups) {
			a.salesCursor = 0
		}

	case customersMsg:
		if !a.customersList.Accept(m.seq) {
			return a, nil
		}
		a.customersList.SetCount(m.count)
		a.customers = m.customers
		if a.custCursor >= len(a.customers) {
			a.custCursor = 0
		}

	case customerMsg:
		c := m.customer
		a.detailCustomer = &c

	case historyMsg:
		if !a.historyList.Accept(m.seq) {
			return a, nil
		}
		a.historyList.SetCount(m.count)
		a.historyGroups = m.groups

	case cashflowMsg:
		if !a.cashflowList.Accept(m.seq) {
			return a, nil
		}
		a.cashflowList.SetCount(m.count)
		a.cashGroups = m.groups
		if a.cashCursor >= len(a.cashGroups) {
			a.cashCursor = 0
		}

	case dashboardMsg:
		a.overview = m.overview
		a.productSales = m.byProduct
		a.clientSales = m.byClient
		a.statusSales = m.byStatus
		a.conversion = m.conversion
		a.averageTicket = m.averageTicket

	case referenceDataMsg:
		a.products = m.products
		a.cacheCustomers = m.customers

	case presetsMsg:
		a.presets = m.presets

	case batchDoneMsg:
		a.modal = modalNone
		a.cart = nil
		cmds := []tea.Cmd{a.setStatus(m.result.Summary())}
		for _, failed := range m.result.Failed() {
			a.log.Warn("batch step failed", zap.String("op", string(failed.Op)), zap.Int64("sale_id", failed.SaleID), zap.Error(failed.Err))
		}
		cmds = append(cmds, a.reloadCurrentView()...)
		return a, tea.Batch(cmds...)

	case savedMsg:
		a.modal = modalNone
		a.form = nil
		cmds := append([]tea.Cmd{a.setStatus(string(m))}, a.reloadCurrentView()...)
		return a, tea.Batch(cmds...)

	case searchTickMsg:
		if int(m) != a.searchToken {
			return a, nil
		}
		a.customersList.SetSearch(a.searchInput.Value())
		return a, a.loadCustomers()

	case statusMsg:
		return a, a.setStatus(string(m))

	case clearStatusMsg:
		if int(m) == a.statusToken {
			a.status = ""
		}

	case errMsg:
		if errors.Is(m.error, api.ErrUnauthorized) {
			a.state = viewLogin
			a.modal = modalNone
			a.loginErr = "Sessão expirada. Faça login novamente."
			a.usernameInput.Focus()
			return a, textinput.Blink
		}
		a.log.Warn("operation failed", zap.Error(m.error))
		return a, a.setStatus("Erro: " + userErrorText(m.error))
	}
	return a, nil
}

// setStatus shows a transient message that clears itself after a few seconds.
func (a *App) setStatus(text string) tea.Cmd {
	a.status = text
	a.statusToken++
	token := a.statusToken
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg(token)
	})
}

// reloadCurrentView refreshes whatever list the user is looking at.
func (a *App) reloadCurrentView() []tea.Cmd {
	switch a.state {
	case viewSales:
		return []tea.Cmd{a.loadSales()}
	case viewCustomers:
		return []tea.Cmd{a.loadCustomers()}
	case viewCustomerDetail:
		if a.detailCustomer != nil {
			return []tea.Cmd{a.loadCustomer(a.detailCustomer.ID), a.loadHistory(a.detailCustomer.ID)}
		}
	case viewCashflow:
		return []tea.Cmd{a.loadCashflow()}
	case viewDashboard:
		return []tea.Cmd{a.loadDashboard()}
	}
	return nil
}

func loginErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Usuário ou senha inválidos."
	case errors.Is(err, api.ErrUnreachable):
		return "Não foi possível se conectar ao servidor."
	default:
		return "Erro ao entrar: " + err.Error()
	}
}

func userErrorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	if errors.Is(err, api.ErrUnreachable) {
		return "não foi possível se conectar ao servidor"
	}
	return err.Error()
}

// messages
type loginDoneMsg struct{ err error }

type salesMsg struct {
	seq    uint64
	count  int
	groups []grouping.SaleGroup
}

type customersMsg struct {
	seq       uint64
	count     int
	customers []api.Customer
}

type customerMsg struct {
	customer api.Customer
}

type historyMsg struct {
	seq    uint64
	count  int
	groups []grouping.SaleGroup
}

type cashflowMsg struct {
	seq    uint64
	count  int
	groups []grouping.CashflowGroup
}

type dashboardMsg struct {
	overview      *api.Overview
	byProduct     []api.ProductSales
	byClient      []api.ClientSales
	byStatus      []api.StatusSales
	conversion    *api.Conversion
	averageTicket *api.AverageTicket
}

type referenceDataMsg struct {
	products  []repository.CachedProduct
	customers []repository.CachedCustomer
}

type presetsMsg struct {
	presets []repository.FilterPreset
}

type batchDoneMsg struct {
	result checkout.BatchResult
}

type savedMsg string

type searchTickMsg int

type statusMsg string

type clearStatusMsg int

type errMsg struct{ error }

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	paidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	profitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func statusLabel(s api.PaymentStatus) string {
	if s == api.PaymentPaid {
		return paidStyle.Render("PAGO")
	}
	return pendStyle.Render("PENDENTE")
}

// cashflowSummary totals the visible page client side.
func (a *App) cashflowSummary() (profit, expense, balance decimal.Decimal) {
	profit, expense = decimal.Zero, decimal.Zero
	for _, g := range a.cashGroups {
		if g.ValueType == api.ValueProfit {
			profit = profit.Add(g.Total)
		} else {
			expense = expense.Add(g.Total)
		}
	}
	return profit, expense, profit.Sub(expense)
}
