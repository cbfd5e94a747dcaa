package models

import "time"

// TicketStatus is the support ticket state.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

// SupportTicket is a user-submitted support request. The message floor
// is enforced at the input boundary.
type SupportTicket struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string       `json:"user_id" gorm:"index;type:varchar(36)"`
	User      User         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Subject   string       `json:"subject" gorm:"type:varchar(150)"`
	Message   string       `json:"message" gorm:"type:text"`
	Status    TicketStatus `json:"status" gorm:"type:varchar(30)"`
	CreatedAt time.Time    `json:"created_at"`
}

// Notification is a one-way outbound message to a user, created by
// order lifecycle events. The only mutation is flipping IsRead.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Message   string    `json:"message" gorm:"type:varchar(255)"`
	Type      string    `json:"type" gorm:"type:varchar(50)"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
