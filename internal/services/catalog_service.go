package services

import (
	"pustaka/internal/models"
	"pustaka/internal/repositories"
)

// BookDetail bundles a book with its reviews and on-read average rating.
type BookDetail struct {
	Book          models.Book     `json:"book"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

// HomePage is the storefront landing payload: the newest arrivals plus
// the category list for browsing.
type HomePage struct {
	Books      []models.Book     `json:"books"`
	Categories []models.Category `json:"categories"`
}

// CatalogService handles read access to the catalog. Writes happen
// through the admin surface, which only this service's repositories
// know about.
type CatalogService struct {
	bookRepo   repositories.BookRepository
	reviewRepo repositories.ReviewRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(bookRepo repositories.BookRepository, reviewRepo repositories.ReviewRepository) *CatalogService {
	return &CatalogService{bookRepo: bookRepo, reviewRepo: reviewRepo}
}

// ListBooks retrieves books matching the filter.
func (s *CatalogService) ListBooks(filter models.BookFilter) ([]models.Book, error) {
	return s.bookRepo.List(filter)
}

// Home returns the eight newest books and all categories.
func (s *CatalogService) Home() (*HomePage, error) {
	books, err := s.bookRepo.Latest(8)
	if err != nil {
		return nil, err
	}
	categories, err := s.bookRepo.ListCategories()
	if err != nil {
		return nil, err
	}
	return &HomePage{Books: books, Categories: categories}, nil
}

// GetBookDetail returns one book with its reviews and average rating.
func (s *CatalogService) GetBookDetail(bookID string) (*BookDetail, error) {
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByBook(bookID)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviewRepo.AverageRating(bookID)
	if err != nil {
		return nil, err
	}
	return &BookDetail{Book: *book, Reviews: reviews, AverageRating: avg}, nil
}

// ListCategories returns every category.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.bookRepo.ListCategories()
}
