package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal"
	"github.com/dgromov/ordersui/internal/model"
)

var _ = Describe("Stub orders api", func() {
	var app *fiber.App

	BeforeEach(func() {
		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		app = internal.NewApp(internal.NewHandlers(internal.NewStore(), logger.Sugar()))
	})

	do := func(method string, body any) *http.Response {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			Expect(err).ShouldNot(HaveOccurred())
			reader = bytes.NewReader(payload)
		}

		req := httptest.NewRequest(method, "/api/orders", reader)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := app.Test(req)
		Expect(err).ShouldNot(HaveOccurred())
		return res
	}

	decode := func(res *http.Response, out any) {
		defer res.Body.Close()
		Expect(json.NewDecoder(res.Body).Decode(out)).To(Succeed())
	}

	It("round-trips a create: the listing carries the server-assigned id", func() {
		order := model.DraftOrder()
		order.Quantity = decimal.NewFromInt(3)
		order.Price = decimal.NewFromInt(2)
		order.UnitCurrency = model.CurrencyUSD

		res := do(http.MethodPost, order)
		Expect(res.StatusCode).To(Equal(http.StatusCreated))

		var created model.Order
		decode(res, &created)
		Expect(created.ID).To(Equal(1))

		res = do(http.MethodGet, nil)
		Expect(res.StatusCode).To(Equal(http.StatusOK))

		var orders []model.Order
		decode(res, &orders)
		Expect(orders).To(HaveLen(1))
		Expect(orders[0].ID).To(Equal(1))
		Expect(orders[0].Quantity.Equal(decimal.NewFromInt(3))).To(BeTrue())
		Expect(orders[0].UnitCurrency).To(Equal(model.CurrencyUSD))
	})
	It("updates a stored order in place", func() {
		order := model.DraftOrder()
		order.Price = decimal.NewFromInt(2)

		var created model.Order
		decode(do(http.MethodPost, order), &created)

		created.Price = decimal.NewFromInt(5)
		res := do(http.MethodPut, created)
		Expect(res.StatusCode).To(Equal(http.StatusOK))

		var orders []model.Order
		decode(do(http.MethodGet, nil), &orders)
		Expect(orders).To(HaveLen(1))
		Expect(orders[0].Price.Equal(decimal.NewFromInt(5))).To(BeTrue())
	})
	It("rejects an invalid create and stores nothing", func() {
		res := do(http.MethodPost, model.DraftOrder()) // price zero
		Expect(res.StatusCode).To(Equal(http.StatusUnprocessableEntity))

		var orders []model.Order
		decode(do(http.MethodGet, nil), &orders)
		Expect(orders).To(BeEmpty())
	})
	It("rejects an update without a persisted id", func() {
		order := model.DraftOrder()
		order.Price = decimal.NewFromInt(2)

		res := do(http.MethodPut, order)
		Expect(res.StatusCode).To(Equal(http.StatusUnprocessableEntity))
	})
	It("answers 404 for an unknown order id", func() {
		order := model.DraftOrder()
		order.ID = 42
		order.Price = decimal.NewFromInt(2)

		res := do(http.MethodPut, order)
		Expect(res.StatusCode).To(Equal(http.StatusNotFound))
	})
	It("answers 400 on a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")

		res, err := app.Test(req)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.StatusCode).To(Equal(http.StatusBadRequest))
	})
})
