package internal

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dgromov/ordersui/internal/model"
)

var (
	ErrNetwork          = errors.New("orders api request failed")
	ErrDraftInProgress  = errors.New("draft order is already in progress")
	ErrSubmitInProgress = errors.New("submission is already in progress")
	ErrViewClosed       = errors.New("view is closed")
	ErrNoSuchOrder      = errors.New("no order at this position")
)

var minPrice = decimal.NewFromFloat(0.01)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// ValidateOrder applies the pre-submission rules: quantity >= 0,
// price >= 0.01, both currencies known. Returns nil when the order is valid.
func ValidateOrder(o model.Order) *ValidationError {
	var fields []string

	if o.Quantity.IsNegative() {
		fields = append(fields, FieldQuantity)
	}
	if o.Price.LessThan(minPrice) {
		fields = append(fields, FieldPrice)
	}
	if !o.UnitCurrency.Valid() {
		fields = append(fields, FieldUnitCurrency)
	}
	if !o.OutputCurrency.Valid() {
		fields = append(fields, FieldOutputCurrency)
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
