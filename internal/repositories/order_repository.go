package repositories

import "pustaka/internal/models"

// OrderRepository defines the interface for order data access. The two
// multi-entity writes (checkout and payment) are single transactions:
// they either land completely or not at all.
type OrderRepository interface {
	// CreateFromCart persists the order and its items, decrements the
	// stock of every ordered book and clears the user's cart, all
	// inside one transaction.
	CreateFromCart(order *models.Order, items []models.OrderItem) error
	GetForUser(userID, id string) (*models.Order, error)
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
	// RecordPayment inserts the payment row and moves the order to
	// the given status in one transaction.
	RecordPayment(payment *models.Payment, status models.OrderStatus) error
}
