package handlers

import (
	"pustaka/internal/models"
	"pustaka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for the user's own account and
// addresses.
type ProfileHandler struct {
	profileService *services.ProfileService
	validate       *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the profile and address routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)

	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleListAddresses)
	addressRoutes.Post("/", h.HandleCreateAddress)
	addressRoutes.Put("/:id", h.HandleUpdateAddress)
	addressRoutes.Delete("/:id", h.HandleDeleteAddress)
	addressRoutes.Post("/:id/default", h.HandleSetDefaultAddress)
}

// HandleGetProfile returns the caller's account data.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.profileService.GetProfile(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfileRequest represents the editable profile fields.
type UpdateProfileRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,numeric,max=20"`
}

// HandleUpdateProfile updates the caller's email and phone.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
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

	user, err := h.profileService.UpdateProfile(currentUserID(c), req.Email, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// AddressRequest represents the request body for creating or editing
// an address.
type AddressRequest struct {
	Country    string `json:"country" validate:"required,max=50"`
	City       string `json:"city" validate:"required,max=50"`
	Street     string `json:"street" validate:"required,max=150"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	IsDefault  bool   `json:"is_default"`
}

// HandleListAddresses returns the caller's addresses, default first.
func (h *ProfileHandler) HandleListAddresses(c *fiber.Ctx) error {
	addresses, err := h.profileService.ListAddresses(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(addresses)
}

// HandleCreateAddress adds a shipping address for the caller.
func (h *ProfileHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
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

	address := models.Address{
		UserID:     currentUserID(c),
		Country:    req.Country,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := h.profileService.CreateAddress(&address); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleUpdateAddress edits one of the caller's addresses.
func (h *ProfileHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
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

	userID := currentUserID(c)
	address := models.Address{
		ID:         c.Params("id"),
		UserID:     userID,
		Country:    req.Country,
		City:       req.City,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := h.profileService.UpdateAddress(userID, &address); err != nil {
		return respondError(c, err)
	}
	return c.JSON(address)
}

// HandleDeleteAddress removes an address unless an order references it.
func (h *ProfileHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	if err := h.profileService.DeleteAddress(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}

// HandleSetDefaultAddress makes one address the caller's default.
func (h *ProfileHandler) HandleSetDefaultAddress(c *fiber.Ctx) error {
	if err := h.profileService.SetDefaultAddress(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default address updated"})
}
