package repositories

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateFromCart persists a checkout atomically: the order row, its
// items, a guarded stock decrement per book and the cart drain share
// one transaction. A failed stock guard rolls everything back.
func (r *GORMOrderRepository) CreateFromCart(order *models.Order, items []models.OrderItem) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Payments", "Address", "User").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = uuid.New().String()
			}
			items[i].OrderID = order.ID
			if err := tx.Omit("Book").Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			res := tx.Model(&models.Book{}).
				Where("id = ? AND stock_quantity >= ?", items[i].BookID, items[i].Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", items[i].Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for book %s: %w", items[i].BookID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for book %s: %w", items[i].BookID, apperr.ErrPrecondition)
			}
		}
		if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// GetForUser retrieves an order owned by the given user with items,
// payments and the shipping address loaded.
func (r *GORMOrderRepository) GetForUser(userID, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items.Book").Preload("Payments").Preload("Address").
		First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetByID retrieves an order regardless of owner. Used by staff-side
// transitions (shipping, delivery).
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items.Book").Preload("Payments").Preload("Address").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items.Book").
		Where("user_id = ?", userID).Order("order_date DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to the given status.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// RecordPayment inserts the payment row and the status change in one
// transaction so a half-recorded payment cannot be observed.
func (r *GORMOrderRepository) RecordPayment(payment *models.Payment, status models.OrderStatus) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		res := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Update("status", status)
		if res.Error != nil {
			return fmt.Errorf("failed to update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s: %w", payment.OrderID, apperr.ErrNotFound)
		}
		return nil
	})
}
