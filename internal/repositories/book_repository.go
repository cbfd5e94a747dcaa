package repositories

import "pustaka/internal/models"

// BookRepository defines the interface for catalog data access.
type BookRepository interface {
	List(filter models.BookFilter) ([]models.Book, error)
	Latest(limit int) ([]models.Book, error)
	GetByID(id string) (*models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	Delete(id string) error
	ListCategories() ([]models.Category, error)
}
