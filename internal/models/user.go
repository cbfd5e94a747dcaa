package models

import "time"

// User represents a customer account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone     string    `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,numeric,max=20"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Admin marks a user as staff. Catalog management itself lives outside
// this service; the row exists so books and orders can be attributed.
type Admin struct {
	UserID string `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	User   User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Role   string `json:"role" gorm:"type:varchar(50)"`
}

// Address is a shipping address owned by a user. At most one address
// per user carries IsDefault=true.
type Address struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"user_id" gorm:"index;type:varchar(36)"`
	User       User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Country    string `json:"country" gorm:"type:varchar(50)"`
	City       string `json:"city" gorm:"type:varchar(50)"`
	Street     string `json:"street" gorm:"type:varchar(150)"`
	PostalCode string `json:"postal_code" gorm:"type:varchar(20)"`
	IsDefault  bool   `json:"is_default"`
}
