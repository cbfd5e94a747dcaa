package services

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
)

// ProfileService handles the user's own account data: contact details
// and shipping addresses.
type ProfileService struct {
	userRepo    repositories.UserRepository
	addressRepo repositories.AddressRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, addressRepo repositories.AddressRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, addressRepo: addressRepo}
}

// GetProfile returns the user's account record.
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the user's email and phone. A new email must
// not collide with another account.
func (s *ProfileService) UpdateProfile(userID, email, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if other, err := s.userRepo.GetByEmail(email); err == nil && other.ID != userID {
			return nil, apperr.Validationf("email", "email %q already registered", email)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}
	if phone != "" {
		user.Phone = phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAddress adds a shipping address for the user.
func (s *ProfileService) CreateAddress(address *models.Address) error {
	return s.addressRepo.Create(address)
}

// UpdateAddress edits an address after the ownership check.
func (s *ProfileService) UpdateAddress(userID string, address *models.Address) error {
	if _, err := s.addressRepo.GetForUser(userID, address.ID); err != nil {
		return err
	}
	address.UserID = userID
	return s.addressRepo.Update(address)
}

// DeleteAddress removes an address. Addresses referenced by an order
// are protected and cannot be deleted.
func (s *ProfileService) DeleteAddress(userID, addressID string) error {
	return s.addressRepo.Delete(userID, addressID)
}

// SetDefaultAddress makes one address the user's default; any previous
// default loses the flag in the same transaction.
func (s *ProfileService) SetDefaultAddress(userID, addressID string) error {
	return s.addressRepo.SetDefault(userID, addressID)
}

// ListAddresses returns the user's addresses, default first.
func (s *ProfileService) ListAddresses(userID string) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}
