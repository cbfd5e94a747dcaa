package repositories

import "pustaka/internal/models"

// CartRepository defines the interface for cart data access. Lookups
// are always scoped to the owning user.
type CartRepository interface {
	GetForUser(userID, id string) (*models.CartItem, error)
	GetByUserAndBook(userID, bookID string) (*models.CartItem, error)
	ListByUser(userID string) ([]models.CartItem, error)
	Create(item *models.CartItem) error
	Save(item *models.CartItem) error
	Delete(userID, id string) error
}
