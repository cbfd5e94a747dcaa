package services

import (
	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
)

// minTicketMessage is the floor enforced on support ticket bodies.
const minTicketMessage = 10

// SupportService handles support tickets and user notifications.
type SupportService struct {
	supportRepo      repositories.SupportRepository
	notificationRepo repositories.NotificationRepository
}

// NewSupportService creates a new SupportService.
func NewSupportService(supportRepo repositories.SupportRepository, notificationRepo repositories.NotificationRepository) *SupportService {
	return &SupportService{supportRepo: supportRepo, notificationRepo: notificationRepo}
}

// CreateTicket opens a support ticket for the user.
func (s *SupportService) CreateTicket(userID, subject, message string) (*models.SupportTicket, error) {
	if len(message) < minTicketMessage {
		return nil, apperr.Validationf("message", "message must be at least %d characters", minTicketMessage)
	}
	ticket := &models.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  models.TicketOpen,
	}
	if err := s.supportRepo.Create(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns the user's tickets, newest first.
func (s *SupportService) ListTickets(userID string) ([]models.SupportTicket, error) {
	return s.supportRepo.ListByUser(userID)
}

// UpdateTicketStatus moves a ticket to a new status. Staff-side
// operation; the acting admin is authenticated by the caller.
func (s *SupportService) UpdateTicketStatus(ticketID string, status models.TicketStatus) error {
	switch status {
	case models.TicketOpen, models.TicketAnswered, models.TicketClosed:
	default:
		return apperr.Validationf("status", "unknown ticket status %q", status)
	}
	if _, err := s.supportRepo.GetByID(ticketID); err != nil {
		return err
	}
	return s.supportRepo.UpdateStatus(ticketID, status)
}

// ListNotifications returns the user's notifications, newest first.
func (s *SupportService) ListNotifications(userID string) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(userID)
}

// MarkNotificationRead flips the read flag on one notification.
func (s *SupportService) MarkNotificationRead(userID, notificationID string) error {
	return s.notificationRepo.MarkRead(userID, notificationID)
}

// UnreadNotificationCount returns the user's unread badge count.
func (s *SupportService) UnreadNotificationCount(userID string) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
