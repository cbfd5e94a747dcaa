package models

import "time"

// CartItem is a transient per-user, per-book quantity record that
// exists only before checkout. A user has at most one entry per book;
// repeated adds merge into the existing entry.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_cart_user_book;type:varchar(36)"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BookID    string    `json:"book_id" gorm:"uniqueIndex:idx_cart_user_book;type:varchar(36)"`
	Book      Book      `json:"book" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
