package handlers

import (
	"pustaka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EngagementHandler handles HTTP requests for reviews and wishlists.
type EngagementHandler struct {
	engagementService *services.EngagementService
	validate          *validator.Validate
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(engagementService *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the review and wishlist routes.
func (h *EngagementHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/books/:id/reviews", h.HandleAddReview)

	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleListWishlist)
	wishlistRoutes.Post("/", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:id", h.HandleRemoveFromWishlist)
}

// ReviewRequest represents the request body for adding a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// HandleAddReview records a rating of a book by the caller.
func (h *EngagementHandler) HandleAddReview(c *fiber.Ctx) error {
	var req ReviewRequest
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

	review, err := h.engagementService.AddReview(currentUserID(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// WishlistRequest represents the request body for a wishlist add.
type WishlistRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

// HandleAddToWishlist puts a book on the caller's wishlist.
func (h *EngagementHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	var req WishlistRequest
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

	item, err := h.engagementService.AddToWishlist(currentUserID(c), req.BookID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleListWishlist returns the caller's wishlist.
func (h *EngagementHandler) HandleListWishlist(c *fiber.Ctx) error {
	items, err := h.engagementService.ListWishlist(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleRemoveFromWishlist deletes a wishlist entry.
func (h *EngagementHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	if err := h.engagementService.RemoveFromWishlist(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Wishlist entry removed"})
}
