package internal

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal/model"
)

const DefaultDebounceWindow = 300 * time.Millisecond

const (
	FieldQuantity       = "quantity"
	FieldPrice          = "price"
	FieldUnitCurrency   = "unitCurrency"
	FieldOutputCurrency = "outputCurrency"
	FieldTotalPrice     = "totalPrice"
)

var editableFields = []string{FieldQuantity, FieldPrice, FieldUnitCurrency, FieldOutputCurrency}

// FormView holds the editable order plus two derived display fields.
// The derivation is a two-stage debounced pipeline: quantity/price/unit
// currency feed the total, the total plus the output currency feed the
// converted total. Changing quantity therefore reaches the converted total
// only through the intermediate total, after both quiet windows elapse.
type FormView struct {
	mu sync.Mutex

	repo   IRepository
	logger *zap.SugaredLogger

	order    model.Order
	editMode bool
	touched  map[string]bool

	totalPrice          string
	convertedTotalPrice string

	totalPipe     *Pipeline
	convertedPipe *Pipeline

	submitting bool
	closed     bool

	onChange func()
}

func NewFormView(repo IRepository, window time.Duration, logger *zap.SugaredLogger) *FormView {
	order := model.DraftOrder()

	f := &FormView{
		repo:                repo,
		logger:              logger,
		order:               order,
		touched:             make(map[string]bool),
		totalPrice:          string(order.UnitCurrency) + " 0",
		convertedTotalPrice: string(order.OutputCurrency) + " 0",
	}

	f.totalPipe = NewPipeline(window, map[string]any{
		FieldQuantity:     order.Quantity,
		FieldPrice:        order.Price,
		FieldUnitCurrency: order.UnitCurrency,
	}, f.recalculateTotal)

	f.convertedPipe = NewPipeline(window, map[string]any{
		FieldTotalPrice:     f.totalPrice,
		FieldOutputCurrency: order.OutputCurrency,
	}, f.recalculateConverted)

	return f
}

// OnChange registers a hook invoked after every derived-field update and
// after Bind, so the container can redraw.
func (f *FormView) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// Bind overwrites the form with the selected order. The derived fields
// reset to "<CUR> 0" right here, before any pipeline fires, so totals from
// the previous selection never linger.
func (f *FormView) Bind(order model.Order) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.order = order
	f.editMode = order.ID != 0
	f.touched = make(map[string]bool)
	f.totalPrice = string(order.UnitCurrency) + " 0"
	f.convertedTotalPrice = string(order.OutputCurrency) + " 0"
	totalReset := f.totalPrice
	onChange := f.onChange
	f.mu.Unlock()

	f.totalPipe.Set(FieldQuantity, order.Quantity)
	f.totalPipe.Set(FieldPrice, order.Price)
	f.totalPipe.Set(FieldUnitCurrency, order.UnitCurrency)
	f.convertedPipe.Set(FieldTotalPrice, totalReset)
	f.convertedPipe.Set(FieldOutputCurrency, order.OutputCurrency)

	if onChange != nil {
		onChange()
	}
}

func (f *FormView) SetQuantity(q decimal.Decimal) {
	f.mu.Lock()
	f.order.Quantity = q
	f.mu.Unlock()
	f.totalPipe.Set(FieldQuantity, q)
}

func (f *FormView) SetPrice(p decimal.Decimal) {
	f.mu.Lock()
	f.order.Price = p
	f.mu.Unlock()
	f.totalPipe.Set(FieldPrice, p)
}

func (f *FormView) SetUnitCurrency(c model.Currency) {
	f.mu.Lock()
	f.order.UnitCurrency = c
	f.mu.Unlock()
	f.totalPipe.Set(FieldUnitCurrency, c)
}

func (f *FormView) SetOutputCurrency(c model.Currency) {
	f.mu.Lock()
	f.order.OutputCurrency = c
	f.mu.Unlock()
	f.convertedPipe.Set(FieldOutputCurrency, c)
}

func (f *FormView) Order() model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

func (f *FormView) EditMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editMode
}

func (f *FormView) TotalPrice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalPrice
}

func (f *FormView) ConvertedTotalPrice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.convertedTotalPrice
}

func (f *FormView) Touched(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

func (f *FormView) recalculateTotal(values map[string]any) {
	quantity := values[FieldQuantity].(decimal.Decimal)
	price := values[FieldPrice].(decimal.Decimal)
	currency := values[FieldUnitCurrency].(model.Currency)

	total := string(currency) + " " + quantity.Mul(price).StringFixed(2)

	f.mu.Lock()
	// a snapshot whose inputs no longer match the current order belongs to
	// a superseded edit or binding; the rescheduled window recomputes it
	if f.closed || !quantity.Equal(f.order.Quantity) || !price.Equal(f.order.Price) || currency != f.order.UnitCurrency {
		f.mu.Unlock()
		return
	}
	f.totalPrice = total
	onChange := f.onChange
	f.mu.Unlock()

	f.convertedPipe.Set(FieldTotalPrice, total)
	if onChange != nil {
		onChange()
	}
}

func (f *FormView) recalculateConverted(values map[string]any) {
	total := values[FieldTotalPrice].(string)
	output := values[FieldOutputCurrency].(model.Currency)

	f.mu.Lock()
	if f.closed || total != f.totalPrice || output != f.order.OutputCurrency {
		f.mu.Unlock()
		return
	}
	converted := string(output) + " " +
		numericPart(total).Mul(ConversionRate(f.order.UnitCurrency, output)).StringFixed(2)
	f.convertedTotalPrice = converted
	onChange := f.onChange
	f.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// numericPart strips the "<CUR> " prefix of a derived display value.
func numericPart(s string) decimal.Decimal {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(parts[1])
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}

// Submit validates and sends the order: update when the bound order came
// with a real id, create otherwise. The change signal is published only
// after the backend accepted the order. Overlapping submissions are
// refused instead of raced.
func (f *FormView) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrViewClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	order := f.order
	editMode := f.editMode

	if verr := ValidateOrder(order); verr != nil {
		// a refused submit surfaces validation state on the whole form,
		// not just the offending fields
		for _, field := range editableFields {
			f.touched[field] = true
		}
		f.mu.Unlock()
		return verr
	}

	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	var err error
	if editMode {
		_, err = f.repo.UpdateOrder(ctx, order)
	} else {
		_, err = f.repo.CreateOrder(ctx, order)
	}
	if err != nil {
		f.logger.Errorf("submit order: %s", err.Error())
		return err
	}

	f.repo.Changes().Publish()
	return nil
}

// Close stops both pipelines; a recompute already past the closed check
// finds it again under the form mutex and drops its result.
func (f *FormView) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.totalPipe.Close()
	f.convertedPipe.Close()
}
