package repositories

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressRepository defines the interface for address data access.
// Ownership is part of every lookup: an address that exists but belongs
// to another user behaves exactly like one that does not exist.
type AddressRepository interface {
	Create(address *models.Address) error
	GetForUser(userID, id string) (*models.Address, error)
	ListByUser(userID string) ([]models.Address, error)
	Update(address *models.Address) error
	Delete(userID, id string) error
	SetDefault(userID, id string) error
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

// Create creates a new address. When the new address is flagged as the
// default, any previous default for the user is cleared in the same
// transaction.
func (r *GORMAddressRepository) Create(address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to clear previous default address: %w", err)
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// GetForUser retrieves an address owned by the given user.
func (r *GORMAddressRepository) GetForUser(userID, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}
	return &address, nil
}

// ListByUser returns all addresses for a user, the default first.
func (r *GORMAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Update persists changes to an existing address.
func (r *GORMAddressRepository) Update(address *models.Address) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ? AND id <> ?", address.UserID, true, address.ID).
				Update("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to clear previous default address: %w", err)
			}
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", address.ID, address.UserID).
			Omit("User").Select("*").Updates(address)
		if res.Error != nil {
			return fmt.Errorf("failed to update address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("address %s: %w", address.ID, apperr.ErrNotFound)
		}
		return nil
	})
}

// Delete removes an address unless an order still references it. The
// ownership check runs first: a foreign address must fail exactly like
// a missing one, before the reference count can say anything about it.
func (r *GORMAddressRepository) Delete(userID, id string) error {
	if _, err := r.GetForUser(userID, id); err != nil {
		return err
	}
	var referenced int64
	if err := r.db.Model(&models.Order{}).
		Where("address_id = ?", id).Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check address references: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("address %s is referenced by %d order(s): %w", id, referenced, apperr.ErrPrecondition)
	}
	res := r.db.Delete(&models.Address{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("address %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// SetDefault marks one address as the user's default, clearing any
// previous default in the same transaction so the at-most-one
// invariant holds after the call.
func (r *GORMAddressRepository) SetDefault(userID, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("failed to clear previous default address: %w", err)
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if res.Error != nil {
			return fmt.Errorf("failed to set default address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("address %s: %w", id, apperr.ErrNotFound)
		}
		return nil
	})
}
