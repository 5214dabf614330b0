package internal

import (
	"github.com/shopspring/decimal"

	"github.com/dgromov/ordersui/internal/model"
)

// UAH is the base currency: weights are the UAH value of one unit.
var rateWeights = map[model.Currency]decimal.Decimal{
	model.CurrencyUAH: decimal.NewFromInt(1),
	model.CurrencyUSD: decimal.NewFromInt(10),
	model.CurrencyEUR: decimal.NewFromInt(15),
}

func ConversionRate(from, to model.Currency) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	return rateWeights[from].Div(rateWeights[to])
}
