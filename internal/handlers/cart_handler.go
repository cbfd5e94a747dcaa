package handlers

import (
	"pustaka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleListCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleListCart returns the cart entries and the live total.
func (h *CartHandler) HandleListCart(c *fiber.Ctx) error {
	userID := currentUserID(c)
	items, err := h.cartService.ListItems(userID)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.cartService.ComputeTotal(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": items,
		"total": total,
	})
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddItem adds a book to the cart, merging with any existing
// entry for the same book.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
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
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cartService.AddItem(currentUserID(c), req.BookID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQuantityRequest represents the delta applied to an entry.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// HandleUpdateQuantity adjusts an entry's quantity. Driving it to zero
// or below removes the entry.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
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

	item, err := h.cartService.UpdateQuantity(currentUserID(c), c.Params("id"), req.Delta)
	if err != nil {
		return respondError(c, err)
	}
	if item == nil {
		return c.JSON(fiber.Map{"message": "Cart entry removed"})
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart entry.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.cartService.RemoveItem(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart entry removed"})
}
