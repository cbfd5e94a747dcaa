package handlers

import (
	"pustaka/internal/models"
	"pustaka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SupportHandler handles HTTP requests for support tickets and
// notifications.
type SupportHandler struct {
	supportService *services.SupportService
	validate       *validator.Validate
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the support and notification routes.
func (h *SupportHandler) RegisterRoutes(router fiber.Router) {
	supportRoutes := router.Group("/support")
	supportRoutes.Get("/", h.HandleListTickets)
	supportRoutes.Post("/", h.HandleCreateTicket)
	supportRoutes.Patch("/:id/status", h.HandleUpdateTicketStatus)

	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleListNotifications)
	notificationRoutes.Get("/unread", h.HandleUnreadNotificationCount)
	notificationRoutes.Post("/:id/read", h.HandleMarkNotificationRead)
}

// TicketRequest represents the request body for opening a ticket.
type TicketRequest struct {
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required,min=10"`
}

// HandleCreateTicket opens a support ticket for the caller.
func (h *SupportHandler) HandleCreateTicket(c *fiber.Ctx) error {
	var req TicketRequest
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

	ticket, err := h.supportService.CreateTicket(currentUserID(c), req.Subject, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// HandleListTickets returns the caller's tickets.
func (h *SupportHandler) HandleListTickets(c *fiber.Ctx) error {
	tickets, err := h.supportService.ListTickets(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tickets)
}

// TicketStatusRequest represents a ticket status change.
type TicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open answered closed"`
}

// HandleUpdateTicketStatus moves a ticket to a new status. Staff-side
// surface; not yet guarded by an Admin role check.
func (h *SupportHandler) HandleUpdateTicketStatus(c *fiber.Ctx) error {
	var req TicketStatusRequest
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

	if err := h.supportService.UpdateTicketStatus(c.Params("id"), models.TicketStatus(req.Status)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ticket status updated"})
}

// HandleListNotifications returns the caller's notifications.
func (h *SupportHandler) HandleListNotifications(c *fiber.Ctx) error {
	notifications, err := h.supportService.ListNotifications(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

// HandleUnreadNotificationCount returns the caller's unread badge count.
func (h *SupportHandler) HandleUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := h.supportService.UnreadNotificationCount(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// HandleMarkNotificationRead flips the read flag on one notification.
func (h *SupportHandler) HandleMarkNotificationRead(c *fiber.Ctx) error {
	if err := h.supportService.MarkNotificationRead(currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}
