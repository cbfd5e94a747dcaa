package models

import "time"

// Publisher of one or more books.
type Publisher struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string `json:"name" gorm:"type:varchar(100)"`
	Phone string `json:"phone" gorm:"type:varchar(20)"`
	Email string `json:"email" gorm:"type:varchar(255)"`
}

// Author of one or more books.
type Author struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName string `json:"first_name" gorm:"type:varchar(50)"`
	LastName  string `json:"last_name" gorm:"type:varchar(50)"`
	Bio       string `json:"bio" gorm:"type:text"`
}

// Category groups books for browsing and filtering.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(100)"`
}

// Book represents a title in the catalog. Prices are stored as integer
// minor units. A book cannot be deleted while any order item still
// references it.
type Book struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title           string     `json:"title" gorm:"type:varchar(150)" validate:"required,min=1,max=150"`
	ISBN            string     `json:"isbn" gorm:"uniqueIndex;type:varchar(20)" validate:"required,max=20"`
	Price           int64      `json:"price" validate:"gte=0"`
	StockQuantity   int        `json:"stock_quantity" validate:"gte=0"`
	Description     string     `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	PublicationDate *time.Time `json:"publication_date"`
	PublisherID     string     `json:"publisher_id" gorm:"type:varchar(36)"`
	Publisher       Publisher  `json:"publisher" gorm:"constraint:OnDelete:CASCADE"`
	Authors         []Author   `json:"authors" gorm:"many2many:book_authors"`
	Categories      []Category `json:"categories" gorm:"many2many:book_categories"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookSort enumerates the supported catalog sort orders.
type BookSort string

const (
	SortNone      BookSort = ""
	SortPriceAsc  BookSort = "price_ascending"
	SortPriceDesc BookSort = "price_descending"
)

// BookFilter is the recognized set of catalog query options. Query is a
// case-insensitive substring matched against title and author names.
type BookFilter struct {
	Query      string
	CategoryID string
	Sort       BookSort
}
