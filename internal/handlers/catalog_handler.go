package handlers

import (
	"pustaka/internal/models"
	"pustaka/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for browsing the catalog.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/home", h.HandleHome)
	router.Get("/books", h.HandleListBooks)
	router.Get("/books/:id", h.HandleGetBook)
	router.Get("/categories", h.HandleListCategories)
}

// HandleHome returns the storefront landing data.
func (h *CatalogHandler) HandleHome(c *fiber.Ctx) error {
	page, err := h.catalogService.Home()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleListBooks returns books filtered by the recognized query
// options: q (text search), category (exact id), sort.
func (h *CatalogHandler) HandleListBooks(c *fiber.Ctx) error {
	filter := models.BookFilter{
		Query:      c.Query("q"),
		CategoryID: c.Query("category"),
		Sort:       models.BookSort(c.Query("sort")),
	}
	switch filter.Sort {
	case models.SortNone, models.SortPriceAsc, models.SortPriceDesc:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{"sort": "must be one of price_ascending, price_descending"},
		})
	}

	books, err := h.catalogService.ListBooks(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(books)
}

// HandleGetBook returns one book with reviews and average rating.
func (h *CatalogHandler) HandleGetBook(c *fiber.Ctx) error {
	detail, err := h.catalogService.GetBookDetail(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// HandleListCategories returns every category.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}
