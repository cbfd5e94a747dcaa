package repositories

import (
	"errors"
	"fmt"
	"strings"

	"pustaka/internal/apperr"
	"pustaka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{db: db}
}

// List retrieves books matching the filter. The text query is a
// case-insensitive substring OR-matched against title and author
// first/last names, with duplicates from the author join removed.
func (r *GORMBookRepository) List(filter models.BookFilter) ([]models.Book, error) {
	q := r.db.Model(&models.Book{}).
		Preload("Publisher").Preload("Authors").Preload("Categories")

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Distinct("books.*").
			Joins("LEFT JOIN book_authors ON book_authors.book_id = books.id").
			Joins("LEFT JOIN authors ON authors.id = book_authors.author_id").
			Where("LOWER(books.title) LIKE ? OR LOWER(authors.first_name) LIKE ? OR LOWER(authors.last_name) LIKE ?",
				like, like, like)
	}
	if filter.CategoryID != "" {
		q = q.Joins("JOIN book_categories ON book_categories.book_id = books.id").
			Where("book_categories.category_id = ?", filter.CategoryID)
	}

	switch filter.Sort {
	case models.SortPriceAsc:
		q = q.Order("books.price ASC")
	case models.SortPriceDesc:
		q = q.Order("books.price DESC")
	}

	var books []models.Book
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Latest returns the most recently added books, newest first.
func (r *GORMBookRepository) Latest(limit int) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Preload("Publisher").Preload("Authors").Preload("Categories").
		Order("created_at DESC").Limit(limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list latest books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single book with its associations loaded.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	err := r.db.Preload("Publisher").Preload("Authors").Preload("Categories").
		First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update updates an existing book. Updates with an explicit Where keep
// this a pure update: Save would insert a fresh row for an unknown ID
// instead of reporting it missing.
func (r *GORMBookRepository) Update(book *models.Book) error {
	res := r.db.Model(&models.Book{}).Where("id = ?", book.ID).
		Omit("Authors", "Categories", "Publisher").
		Select("*").Updates(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", book.ID, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a book unless an order item still references it. The
// protect check is explicit rather than left to the database so the
// caller gets a taxonomy error instead of a driver error.
func (r *GORMBookRepository) Delete(id string) error {
	var referenced int64
	if err := r.db.Model(&models.OrderItem{}).
		Where("book_id = ?", id).Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to check book references: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("book %s is referenced by %d order item(s): %w", id, referenced, apperr.ErrPrecondition)
	}
	res := r.db.Select("Authors", "Categories").Delete(&models.Book{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListCategories returns every category.
func (r *GORMBookRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
