package model

import (
	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUAH Currency = "UAH"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func Currencies() []Currency {
	return []Currency{CurrencyUAH, CurrencyUSD, CurrencyEUR}
}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUAH, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// Order with ID 0 is a draft: it has never been accepted by the backend.
type Order struct {
	ID             int             `json:"id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	UnitCurrency   Currency        `json:"unitCurrency"`
	OutputCurrency Currency        `json:"outputCurrency"`
}

func DraftOrder() Order {
	return Order{
		ID:             0,
		Quantity:       decimal.NewFromInt(0),
		Price:          decimal.NewFromInt(0),
		UnitCurrency:   CurrencyUAH,
		OutputCurrency: CurrencyUAH,
	}
}
