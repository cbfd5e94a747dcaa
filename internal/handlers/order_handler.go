package handlers

import (
	"pustaka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require auth;
// the ship/deliver transitions belong to the staff surface and still
// need an Admin role check in the middleware before they are safe to
// expose beyond a trusted deployment.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/pay", h.HandleRecordPayment)
	orderRoutes.Post("/:id/cancel", h.HandleCancel)
	orderRoutes.Post("/:id/ship", h.HandleMarkShipped)
	orderRoutes.Post("/:id/deliver", h.HandleMarkDelivered)
}

// CheckoutRequest represents the request body for checkout.
type CheckoutRequest struct {
	AddressID string `json:"address_id" validate:"required,uuid"`
}

// HandleCheckout converts the caller's cart into a pending order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	order, err := h.orderService.Checkout(currentUserID(c), req.AddressID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders returns the caller's orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListForUser(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one of the caller's orders in detail.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.GetDetail(currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// PaymentRequest represents the request body for recording a payment.
type PaymentRequest struct {
	Method string `json:"method" validate:"required,max=50"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// HandleRecordPayment charges and records a payment, moving the order
// to paid.
func (h *OrderHandler) HandleRecordPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	payment, err := h.orderService.RecordPayment(currentUserID(c), c.Params("id"), req.Method, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// HandleCancel cancels a pending or paid order.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	order, err := h.orderService.Cancel(currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleMarkShipped moves a paid order to shipped. Staff-side; not yet
// guarded by an Admin role check.
func (h *OrderHandler) HandleMarkShipped(c *fiber.Ctx) error {
	if err := h.orderService.MarkShipped(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order marked shipped"})
}

// HandleMarkDelivered moves a shipped order to delivered. Staff-side;
// not yet guarded by an Admin role check.
func (h *OrderHandler) HandleMarkDelivered(c *fiber.Ctx) error {
	if err := h.orderService.MarkDelivered(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order marked delivered"})
}
