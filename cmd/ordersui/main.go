package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal"
	"github.com/dgromov/ordersui/internal/model"
)

type pane int

const (
	paneList pane = iota
	paneForm
)

type field int

const (
	fieldQuantity field = iota
	fieldPrice
	fieldUnitCurrency
	fieldOutputCurrency
)

var fieldNames = map[field]string{
	fieldQuantity:       internal.FieldQuantity,
	fieldPrice:          internal.FieldPrice,
	fieldUnitCurrency:   internal.FieldUnitCurrency,
	fieldOutputCurrency: internal.FieldOutputCurrency,
}

type refreshMsg struct{}

type selectedMsg struct{ order model.Order }

type statusMsg struct{ text string }

type submitDoneMsg struct{ err error }

type uiModel struct {
	list *internal.ListView
	form *internal.FormView

	pane   pane
	cursor int
	focus  field
	inputs map[field]string
	status string
}

func newUIModel(list *internal.ListView, form *internal.FormView) uiModel {
	return uiModel{
		list:   list,
		form:   form,
		inputs: map[field]string{fieldQuantity: "0", fieldPrice: "0"},
		status: "Ready",
	}
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pane == paneList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	case selectedMsg:
		m.pane = paneForm
		m.focus = fieldQuantity
		m.inputs[fieldQuantity] = msg.order.Quantity.String()
		m.inputs[fieldPrice] = msg.order.Price.String()
		m.status = "Editing"
	case statusMsg:
		m.status = msg.text
	case refreshMsg:
		if err := m.list.Err(); err != nil {
			m.status = "Refresh failed: " + err.Error()
		}
		if m.cursor >= len(m.list.Orders()) && m.cursor > 0 {
			m.cursor = len(m.list.Orders()) - 1
		}
	case submitDoneMsg:
		if msg.err != nil {
			m.status = "Submit failed: " + msg.err.Error()
		} else {
			m.status = "Saved"
			m.pane = paneList
		}
	}
	return m, nil
}

func (m uiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.list.Orders())-1 {
			m.cursor++
		}
	case "enter":
		// selection runs as a command: the OnSelect hook sends messages
		// back into the program, which must not happen inside Update
		cursor := m.cursor
		return m, func() tea.Msg {
			if err := m.list.Select(cursor); err != nil {
				return statusMsg{text: err.Error()}
			}
			return nil
		}
	case "n":
		return m, func() tea.Msg {
			if _, err := m.list.AddDraft(); err != nil {
				return statusMsg{text: err.Error()}
			}
			return nil
		}
	case "r":
		return m, func() tea.Msg {
			m.list.Reload(context.Background())
			return refreshMsg{}
		}
	}
	return m, nil
}

func (m uiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.pane = paneList
		m.status = "Ready"
	case "tab", "down":
		m.focus = (m.focus + 1) % 4
	case "shift+tab", "up":
		m.focus = (m.focus + 3) % 4
	case "left", "right":
		if m.focus == fieldUnitCurrency || m.focus == fieldOutputCurrency {
			m.cycleCurrency(msg.String() == "right")
		}
	case "backspace":
		m.editText(func(s string) string {
			if s == "" {
				return s
			}
			return s[:len(s)-1]
		})
	case "ctrl+s", "enter":
		return m, func() tea.Msg {
			return submitDoneMsg{err: m.form.Submit(context.Background())}
		}
	default:
		if len(msg.String()) == 1 && strings.ContainsAny(msg.String(), "0123456789.") {
			m.editText(func(s string) string { return s + msg.String() })
		}
	}
	return m, nil
}

func (m uiModel) editText(edit func(string) string) {
	if m.focus != fieldQuantity && m.focus != fieldPrice {
		return
	}

	text := edit(m.inputs[m.focus])
	m.inputs[m.focus] = text

	value, err := decimal.NewFromString(text)
	if err != nil {
		// incomplete input like "" or "."; keep the last parsable value
		return
	}
	if m.focus == fieldQuantity {
		m.form.SetQuantity(value)
	} else {
		m.form.SetPrice(value)
	}
}

func (m uiModel) cycleCurrency(forward bool) {
	currencies := model.Currencies()
	current := m.form.Order().UnitCurrency
	if m.focus == fieldOutputCurrency {
		current = m.form.Order().OutputCurrency
	}

	i := 0
	for j, c := range currencies {
		if c == current {
			i = j
		}
	}
	if forward {
		i = (i + 1) % len(currencies)
	} else {
		i = (i + len(currencies) - 1) % len(currencies)
	}

	if m.focus == fieldUnitCurrency {
		m.form.SetUnitCurrency(currencies[i])
	} else {
		m.form.SetOutputCurrency(currencies[i])
	}
}

func (m uiModel) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Orders")
	fmt.Fprintln(b, "")

	orders := m.list.Orders()
	if len(orders) == 0 {
		fmt.Fprintln(b, "  (no orders)")
	}
	for i, o := range orders {
		marker := " "
		if m.pane == paneList && i == m.cursor {
			marker = ">"
		}
		label := fmt.Sprintf("#%d", o.ID)
		if o.ID == 0 {
			label = "new"
		}
		fmt.Fprintf(b, " %s %-5s %s x %s %s -> %s\n",
			marker, label, o.Quantity.String(), o.Price.String(), o.UnitCurrency, o.OutputCurrency)
	}

	fmt.Fprintln(b, "")
	mode := "create"
	if m.form.EditMode() {
		mode = "edit"
	}
	fmt.Fprintf(b, "Form (%s):\n", mode)

	order := m.form.Order()
	rows := []struct {
		f     field
		value string
	}{
		{fieldQuantity, m.inputs[fieldQuantity]},
		{fieldPrice, m.inputs[fieldPrice]},
		{fieldUnitCurrency, string(order.UnitCurrency)},
		{fieldOutputCurrency, string(order.OutputCurrency)},
	}
	for _, row := range rows {
		marker := " "
		if m.pane == paneForm && m.focus == row.f {
			marker = ">"
		}
		touched := ""
		if m.form.Touched(fieldNames[row.f]) {
			touched = " (check this value)"
		}
		fmt.Fprintf(b, " %s %-15s %s%s\n", marker, fieldNames[row.f], row.value, touched)
	}
	fmt.Fprintf(b, "   %-15s %s\n", "total", m.form.TotalPrice())
	fmt.Fprintf(b, "   %-15s %s\n", "converted", m.form.ConvertedTotalPrice())

	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Status: %s\n", m.status)
	if m.pane == paneList {
		fmt.Fprintln(b, "Controls: up/down move, enter edit, n new, r reload, q quit")
	} else {
		fmt.Fprintln(b, "Controls: tab next field, left/right currency, enter submit, esc back")
	}
	return b.String()
}

func main() {
	//decimals at json as plain numbers
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := internal.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()

	repository := internal.NewRepository(cfg.APIAddress, sugaredLogger)
	list := internal.NewListView(repository, sugaredLogger)
	form := internal.NewFormView(repository, cfg.DebounceWindow, sugaredLogger)
	defer list.Close()
	defer form.Close()

	p := tea.NewProgram(newUIModel(list, form))

	list.OnUpdate(func() { p.Send(refreshMsg{}) })
	list.OnSelect(func(o model.Order) {
		form.Bind(o)
		p.Send(selectedMsg{order: o})
	})
	form.OnChange(func() { p.Send(refreshMsg{}) })

	// initial load runs beside the program loop: its refresh nudge is
	// consumed once Run is pumping messages
	go list.Activate(context.Background())

	if _, err := p.Run(); err != nil {
		sugaredLogger.Fatal(err)
	}
}
