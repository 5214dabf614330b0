package main

import (
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal"
	"github.com/dgromov/ordersui/internal/model"
)

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

	st := internal.NewStore()
	st.Create(model.Order{Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(2), UnitCurrency: model.CurrencyUSD, OutputCurrency: model.CurrencyUAH})
	st.Create(model.Order{Quantity: decimal.NewFromInt(10), Price: decimal.NewFromFloat(1.5), UnitCurrency: model.CurrencyEUR, OutputCurrency: model.CurrencyEUR})

	app := internal.NewApp(internal.NewHandlers(st, sugaredLogger))

	sugaredLogger.Infof("orders api listening on %s", cfg.ListenAddress)
	sugaredLogger.Fatal(app.Listen(cfg.ListenAddress))
}
