package services

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
)

// CartService handles the pre-checkout cart. Every operation takes the
// acting user explicitly; an entry belonging to someone else is
// indistinguishable from a missing one.
type CartService struct {
	cartRepo repositories.CartRepository
	bookRepo repositories.BookRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, bookRepo repositories.BookRepository) *CartService {
	return &CartService{cartRepo: cartRepo, bookRepo: bookRepo}
}

// AddItem puts qty copies of a book into the user's cart. A repeat add
// merges into the existing entry instead of creating a second row.
func (s *CartService) AddItem(userID, bookID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, apperr.Validationf("quantity", "quantity must be at least 1")
	}
	if _, err := s.bookRepo.GetByID(bookID); err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetByUserAndBook(userID, bookID)
	if err == nil {
		existing.Quantity += qty
		if err := s.cartRepo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up cart entry: %w", err)
	}

	item := &models.CartItem{UserID: userID, BookID: bookID, Quantity: qty}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity adjusts the quantity of a cart entry by delta. A
// result of zero or less deletes the entry.
func (s *CartService) UpdateQuantity(userID, entryID string, delta int) (*models.CartItem, error) {
	item, err := s.cartRepo.GetForUser(userID, entryID)
	if err != nil {
		return nil, err
	}

	item.Quantity += delta
	if item.Quantity <= 0 {
		if err := s.cartRepo.Delete(userID, entryID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := s.cartRepo.Save(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a cart entry after the ownership check.
func (s *CartService) RemoveItem(userID, entryID string) error {
	return s.cartRepo.Delete(userID, entryID)
}

// ListItems returns all cart entries for the user.
func (s *CartService) ListItems(userID string) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// ComputeTotal sums book price times quantity over the user's cart.
// Prices are live, not snapshots: the cart is pre-checkout state.
func (s *CartService) ComputeTotal(userID string) (int64, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, item := range items {
		total += item.Book.Price * int64(item.Quantity)
	}
	return total, nil
}
