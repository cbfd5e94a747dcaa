package repositories

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetForUser retrieves a cart entry owned by the given user.
func (r *GORMCartRepository) GetForUser(userID, id string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Book").First(&item, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart entry %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart entry %s: %w", id, err)
	}
	return &item, nil
}

// GetByUserAndBook retrieves the user's cart entry for a book, if any.
func (r *GORMCartRepository) GetByUserAndBook(userID, bookID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "user_id = ? AND book_id = ?", userID, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart entry for book %s: %w", bookID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart entry for book %s: %w", bookID, err)
	}
	return &item, nil
}

// ListByUser returns all cart entries for a user with books preloaded.
func (r *GORMCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Book").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart entries: %w", err)
	}
	return items, nil
}

// Create adds a new cart entry.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart entry: %w", err)
	}
	return nil
}

// Save persists a quantity change on an existing entry. Only the
// quantity column is written; an unknown ID is an error, never an
// insert.
func (r *GORMCartRepository) Save(item *models.CartItem) error {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", item.ID).
		Update("quantity", item.Quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to save cart entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart entry %s: %w", item.ID, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a cart entry owned by the given user.
func (r *GORMCartRepository) Delete(userID, id string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart entry %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
