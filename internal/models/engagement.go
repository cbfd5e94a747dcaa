package models

import "time"

// Review is a user's rating of a book. A user may review the same book
// more than once; the average is computed on read.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"index;type:varchar(36)"`
	User       User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BookID     string    `json:"book_id" gorm:"index;type:varchar(36)"`
	Book       Book      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment" gorm:"type:text"`
	ReviewDate time.Time `json:"review_date"`
}

// WishlistItem marks a book a user wants; one entry per (user, book).
type WishlistItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_wishlist_user_book;type:varchar(36)"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BookID    string    `json:"book_id" gorm:"uniqueIndex:idx_wishlist_user_book;type:varchar(36)"`
	Book      Book      `json:"book" gorm:"constraint:OnDelete:CASCADE"`
	AddedDate time.Time `json:"added_date"`
}
