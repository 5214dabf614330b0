package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/dgromov/ordersui/internal/model"
)

// Handlers serves the orders backend surface over a Store, so the UI
// can run against a local stand-in instead of the real backend.
type Handlers struct {
	store  *Store
	logger *zap.SugaredLogger
}

func NewHandlers(store *Store, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{store: store, logger: logger}
}

func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.store.List())
}

func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var order model.Order
	if err := c.BodyParser(&order); err != nil {
		h.logger.Errorf("Error on create order request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if verr := ValidateOrder(order); verr != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": verr.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(h.store.Create(order))
}

func (h *Handlers) UpdateOrder(c *fiber.Ctx) error {
	var order model.Order
	if err := c.BodyParser(&order); err != nil {
		h.logger.Errorf("Error on update order request: %s", err.Error())
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if order.ID == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "update requires a persisted order id"})
	}
	if verr := ValidateOrder(order); verr != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": verr.Error()})
	}
	saved, ok := h.store.Update(order)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(saved)
}

func NewApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	api.Get("/orders", h.ListOrders)
	api.Post("/orders", h.CreateOrder)
	api.Put("/orders", h.UpdateOrder)

	return app
}
