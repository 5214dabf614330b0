package test

import (
	"context"
	"errors"
	"time"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal"
	mock_internal "github.com/dgromov/ordersui/internal/mock"
	"github.com/dgromov/ordersui/internal/model"
)

var _ = Describe("FormView", func() {
	var (
		ctrl *gomock.Controller
		rep  *mock_internal.MockIRepository
		sig  *internal.Signal
		form *internal.FormView
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		rep = mock_internal.NewMockIRepository(ctrl)
		sig = internal.NewSignal()

		form = internal.NewFormView(rep, 20*time.Millisecond, logger.Sugar())
	})
	AfterEach(func() {
		form.Close()
		ctrl.Finish()
	})

	Context("derived totals", func() {
		It("settles on the total and the converted total after both windows", func() {
			form.SetQuantity(decimal.NewFromInt(3))
			form.SetPrice(decimal.NewFromInt(2))
			form.SetUnitCurrency(model.CurrencyUSD)
			form.SetOutputCurrency(model.CurrencyUAH)

			Eventually(form.TotalPrice, "1s", "5ms").Should(Equal("USD 6.00"))
			Eventually(form.ConvertedTotalPrice, "1s", "5ms").Should(Equal("UAH 60.00"))
		})
		It("shows the initial totals without any edit", func() {
			Eventually(form.TotalPrice, "1s", "5ms").Should(Equal("UAH 0.00"))
			Eventually(form.ConvertedTotalPrice, "1s", "5ms").Should(Equal("UAH 0.00"))
		})
		It("keeps two decimal places on fractional amounts", func() {
			form.SetQuantity(decimal.NewFromInt(3))
			form.SetPrice(decimal.NewFromFloat(0.1))

			Eventually(form.TotalPrice, "1s", "5ms").Should(Equal("UAH 0.30"))
		})
		It("converts with the rate between unit and output currency", func() {
			form.SetQuantity(decimal.NewFromInt(1))
			form.SetPrice(decimal.NewFromInt(3))
			form.SetUnitCurrency(model.CurrencyEUR)
			form.SetOutputCurrency(model.CurrencyUSD)

			Eventually(form.ConvertedTotalPrice, "1s", "5ms").Should(Equal("USD 4.50"))
		})
	})

	Context("binding", func() {
		It("resets both derived fields synchronously, before any recompute", func() {
			order := model.Order{
				ID:             4,
				Quantity:       decimal.NewFromInt(5),
				Price:          decimal.NewFromInt(5),
				UnitCurrency:   model.CurrencyUSD,
				OutputCurrency: model.CurrencyEUR,
			}

			form.Bind(order)

			Expect(form.TotalPrice()).To(Equal("USD 0"))
			Expect(form.ConvertedTotalPrice()).To(Equal("EUR 0"))
			Expect(form.EditMode()).To(BeTrue())
		})
		It("recomputes the bound order's totals after the windows", func() {
			form.Bind(model.Order{
				ID:             4,
				Quantity:       decimal.NewFromInt(5),
				Price:          decimal.NewFromInt(4),
				UnitCurrency:   model.CurrencyUSD,
				OutputCurrency: model.CurrencyUAH,
			})

			Eventually(form.TotalPrice, "1s", "5ms").Should(Equal("USD 20.00"))
			Eventually(form.ConvertedTotalPrice, "1s", "5ms").Should(Equal("UAH 200.00"))
		})
		It("treats the draft sentinel as create mode", func() {
			form.Bind(model.DraftOrder())
			Expect(form.EditMode()).To(BeFalse())
		})
		It("never lets a recompute from before the binding overwrite the reset", func() {
			// binds right as the quiet window elapses, so an in-flight
			// recompute for the old edit may land after the reset; its
			// stale total must be dropped, never displayed
			for i := 0; i < 25; i++ {
				form.SetQuantity(decimal.NewFromInt(9))
				form.SetPrice(decimal.NewFromInt(9))
				time.Sleep(20 * time.Millisecond)

				form.Bind(model.Order{ID: 3, UnitCurrency: model.CurrencyEUR, OutputCurrency: model.CurrencyEUR})

				Expect(form.TotalPrice()).To(Or(Equal("EUR 0"), Equal("EUR 0.00")))
				Expect(form.ConvertedTotalPrice()).To(Or(Equal("EUR 0"), Equal("EUR 0.00")))
			}
		})
	})

	Context("submission", func() {
		It("rejects an invalid order locally and marks every field touched", func() {
			form.Bind(model.DraftOrder()) // price 0 fails the 0.01 floor

			err := form.Submit(context.Background())

			var verr *internal.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Fields).To(Equal([]string{internal.FieldPrice}))

			// the whole form lights up, not only the offending field
			for _, field := range []string{
				internal.FieldQuantity,
				internal.FieldPrice,
				internal.FieldUnitCurrency,
				internal.FieldOutputCurrency,
			} {
				Expect(form.Touched(field)).To(BeTrue(), field)
			}
		})
		It("clears the touched marks on the next binding", func() {
			form.Bind(model.DraftOrder())
			Expect(form.Submit(context.Background())).To(HaveOccurred())
			Expect(form.Touched(internal.FieldQuantity)).To(BeTrue())

			form.Bind(model.DraftOrder())
			Expect(form.Touched(internal.FieldQuantity)).To(BeFalse())
			Expect(form.Touched(internal.FieldPrice)).To(BeFalse())
		})
		It("creates a draft and publishes the change signal", func() {
			draft := model.DraftOrder()
			draft.Price = decimal.NewFromInt(2)
			form.Bind(draft)

			saved := draft
			saved.ID = 9
			rep.EXPECT().CreateOrder(gomock.Any(), draft).Return(saved, nil)
			rep.EXPECT().Changes().Return(sig)

			ch, _ := sig.Subscribe()

			Expect(form.Submit(context.Background())).To(Succeed())
			Expect(ch).Should(Receive())
		})
		It("updates a persisted order", func() {
			order := model.Order{
				ID:             7,
				Quantity:       decimal.NewFromInt(1),
				Price:          decimal.NewFromInt(1),
				UnitCurrency:   model.CurrencyUAH,
				OutputCurrency: model.CurrencyUAH,
			}
			form.Bind(order)

			rep.EXPECT().UpdateOrder(gomock.Any(), order).Return(order, nil)
			rep.EXPECT().Changes().Return(sig)

			Expect(form.Submit(context.Background())).To(Succeed())
		})
		It("returns the transport error and publishes nothing", func() {
			draft := model.DraftOrder()
			draft.Price = decimal.NewFromInt(2)
			form.Bind(draft)

			rep.EXPECT().CreateOrder(gomock.Any(), draft).Return(model.Order{}, internal.ErrNetwork)

			ch, _ := sig.Subscribe()

			err := form.Submit(context.Background())
			Expect(errors.Is(err, internal.ErrNetwork)).To(BeTrue())
			Expect(ch).ShouldNot(Receive())
		})
		It("refuses a second submit while one is in flight", func() {
			draft := model.DraftOrder()
			draft.Price = decimal.NewFromInt(2)
			form.Bind(draft)

			started := make(chan struct{})
			release := make(chan struct{})
			rep.EXPECT().CreateOrder(gomock.Any(), draft).DoAndReturn(
				func(context.Context, model.Order) (model.Order, error) {
					close(started)
					<-release
					return draft, nil
				})
			rep.EXPECT().Changes().Return(sig)

			first := make(chan error, 1)
			go func() {
				first <- form.Submit(context.Background())
			}()

			<-started
			Expect(form.Submit(context.Background())).To(Equal(internal.ErrSubmitInProgress))

			close(release)
			Eventually(first).Should(Receive(BeNil()))
		})
	})

	Context("teardown", func() {
		It("stops recomputation and refuses submits after Close", func() {
			logger, err := zap.NewDevelopment()
			Expect(err).ShouldNot(HaveOccurred())

			closed := internal.NewFormView(rep, 20*time.Millisecond, logger.Sugar())
			closed.Close()

			closed.SetQuantity(decimal.NewFromInt(3))
			closed.SetPrice(decimal.NewFromInt(2))

			Consistently(closed.TotalPrice, "100ms", "10ms").Should(Equal("UAH 0"))
			Expect(closed.Submit(context.Background())).To(Equal(internal.ErrViewClosed))
		})
	})
})
