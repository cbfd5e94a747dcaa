package repositories

import (
	"errors"
	"fmt"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByBook(bookID string) ([]models.Review, error)
	AverageRating(bookID string) (float64, error)
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetByUserAndBook(userID, bookID string) (*models.WishlistItem, error)
	Create(item *models.WishlistItem) error
	ListByUser(userID string) ([]models.WishlistItem, error)
	Delete(userID, id string) error
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create adds a review.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByBook returns all reviews for a book, newest first.
func (r *GORMReviewRepository) ListByBook(bookID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("book_id = ?", bookID).Order("review_date DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// AverageRating computes the mean rating on read. Returns 0 when the
// book has no reviews.
func (r *GORMReviewRepository) AverageRating(bookID string) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

// GetByUserAndBook retrieves the user's wishlist entry for a book.
func (r *GORMWishlistRepository) GetByUserAndBook(userID, bookID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.First(&item, "user_id = ? AND book_id = ?", userID, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wishlist entry for book %s: %w", bookID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wishlist entry for book %s: %w", bookID, err)
	}
	return &item, nil
}

// Create adds a wishlist entry.
func (r *GORMWishlistRepository) Create(item *models.WishlistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create wishlist entry: %w", err)
	}
	return nil
}

// ListByUser returns all wishlist entries for a user with books loaded.
func (r *GORMWishlistRepository) ListByUser(userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.Preload("Book").Where("user_id = ?", userID).Order("added_date DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist entries: %w", err)
	}
	return items, nil
}

// Delete removes a wishlist entry owned by the given user.
func (r *GORMWishlistRepository) Delete(userID, id string) error {
	res := r.db.Delete(&models.WishlistItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist entry %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
