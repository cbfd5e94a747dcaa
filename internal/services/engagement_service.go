package services

import (
	"errors"
	"fmt"
	"time"

	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
)

// EngagementService handles reviews and wishlists.
type EngagementService struct {
	reviewRepo   repositories.ReviewRepository
	wishlistRepo repositories.WishlistRepository
	bookRepo     repositories.BookRepository
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(
	reviewRepo repositories.ReviewRepository,
	wishlistRepo repositories.WishlistRepository,
	bookRepo repositories.BookRepository,
) *EngagementService {
	return &EngagementService{
		reviewRepo:   reviewRepo,
		wishlistRepo: wishlistRepo,
		bookRepo:     bookRepo,
	}
}

// AddReview records a rating for a book. A user may review the same
// book repeatedly; the average is recomputed on read.
func (s *EngagementService) AddReview(userID, bookID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating", "rating must be between 1 and 5")
	}
	if _, err := s.bookRepo.GetByID(bookID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:     userID,
		BookID:     bookID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: time.Now(),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns reviews of a book with the on-read average.
func (s *EngagementService) ListReviews(bookID string) ([]models.Review, float64, error) {
	reviews, err := s.reviewRepo.ListByBook(bookID)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.reviewRepo.AverageRating(bookID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, avg, nil
}

// AddToWishlist puts a book on the user's wishlist. Adding a book that
// is already there returns the existing entry.
func (s *EngagementService) AddToWishlist(userID, bookID string) (*models.WishlistItem, error) {
	if _, err := s.bookRepo.GetByID(bookID); err != nil {
		return nil, err
	}

	existing, err := s.wishlistRepo.GetByUserAndBook(userID, bookID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up wishlist entry: %w", err)
	}

	item := &models.WishlistItem{UserID: userID, BookID: bookID, AddedDate: time.Now()}
	if err := s.wishlistRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveFromWishlist deletes a wishlist entry after the ownership check.
func (s *EngagementService) RemoveFromWishlist(userID, entryID string) error {
	return s.wishlistRepo.Delete(userID, entryID)
}

// ListWishlist returns the user's wishlist, newest first.
func (s *EngagementService) ListWishlist(userID string) ([]models.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(userID)
}
