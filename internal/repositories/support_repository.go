package repositories

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data
// access. Notifications are append-only apart from the read flag.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListByUser(userID string) ([]models.Notification, error)
	MarkRead(userID, id string) error
	CountUnread(userID string) (int64, error)
}

// SupportRepository defines the interface for support ticket data access.
type SupportRepository interface {
	Create(ticket *models.SupportTicket) error
	GetByID(id string) (*models.SupportTicket, error)
	ListByUser(userID string) ([]models.SupportTicket, error)
	UpdateStatus(id string, status models.TicketStatus) error
}

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

// Create adds a notification.
func (r *GORMNotificationRepository) Create(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if err := r.db.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *GORMNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on a notification owned by the user.
func (r *GORMNotificationRepository) MarkRead(userID, id string) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// CountUnread returns the number of unread notifications a user has.
func (r *GORMNotificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// GORMSupportRepository is a GORM implementation of SupportRepository.
type GORMSupportRepository struct {
	db *gorm.DB
}

// NewGORMSupportRepository creates a new instance of GORMSupportRepository.
func NewGORMSupportRepository(db *gorm.DB) *GORMSupportRepository {
	return &GORMSupportRepository{db: db}
}

// Create adds a support ticket.
func (r *GORMSupportRepository) Create(ticket *models.SupportTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	if err := r.db.Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a support ticket.
func (r *GORMSupportRepository) GetByID(id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("support ticket %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get support ticket %s: %w", id, err)
	}
	return &ticket, nil
}

// ListByUser returns a user's tickets, newest first.
func (r *GORMSupportRepository) ListByUser(userID string) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	return tickets, nil
}

// UpdateStatus moves a ticket to the given status.
func (r *GORMSupportRepository) UpdateStatus(id string, status models.TicketStatus) error {
	res := r.db.Model(&models.SupportTicket{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update ticket status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("support ticket %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
