package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"pustaka/internal/handlers"
	"pustaka/internal/middleware"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
	"pustaka/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// testEnv bundles the app with the seeded catalog so tests can refer
// to known books by ID.
type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	bookA    models.Book // price 50000
	bookB    models.Book // price 30000
	bookRare models.Book // price 90000, stock 1
}

// setupApp builds a Fiber app on a fresh in-memory SQLite database
// with all handlers and services wired the way main does it.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A unique shared-cache name per test keeps databases isolated
	// while still surviving across pooled connections.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{}, &models.Admin{}, &models.Address{},
		&models.Publisher{}, &models.Author{}, &models.Category{}, &models.Book{},
		&models.CartItem{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
		&models.Review{}, &models.WishlistItem{},
		&models.Notification{}, &models.SupportTicket{},
	)
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	supportRepo := repositories.NewGORMSupportRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	profileService := services.NewProfileService(userRepo, addressRepo)
	catalogService := services.NewCatalogService(bookRepo, reviewRepo)
	cartService := services.NewCartService(cartRepo, bookRepo)
	// nil events and mailer: both side channels are best-effort.
	orderService := services.NewOrderService(
		orderRepo, cartRepo, addressRepo, userRepo, notificationRepo,
		services.AlwaysApproveGateway{}, nil, nil, nil,
	)
	engagementService := services.NewEngagementService(reviewRepo, wishlistRepo, bookRepo)
	supportService := services.NewSupportService(supportRepo, notificationRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewCartHandler(cartService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)
	handlers.NewProfileHandler(profileService).RegisterRoutes(protected)
	handlers.NewEngagementHandler(engagementService).RegisterRoutes(protected)
	handlers.NewSupportHandler(supportService).RegisterRoutes(protected)

	env := &testEnv{app: app, db: db}
	seedCatalog(t, bookRepo, env)
	return env
}

// seedCatalog populates a publisher, authors, categories and the books
// the tests buy.
func seedCatalog(t *testing.T, repo repositories.BookRepository, env *testEnv) {
	t.Helper()

	publisher := models.Publisher{ID: uuid.New().String(), Name: "Gramedia", Email: "contact@gramedia.example"}
	require.NoError(t, env.db.Create(&publisher).Error)

	herbert := models.Author{ID: uuid.New().String(), FirstName: "Frank", LastName: "Herbert"}
	tolkien := models.Author{ID: uuid.New().String(), FirstName: "John", LastName: "Tolkien"}
	require.NoError(t, env.db.Create(&herbert).Error)
	require.NoError(t, env.db.Create(&tolkien).Error)

	scifi := models.Category{ID: uuid.New().String(), Name: "Science Fiction"}
	fantasy := models.Category{ID: uuid.New().String(), Name: "Fantasy"}
	require.NoError(t, env.db.Create(&scifi).Error)
	require.NoError(t, env.db.Create(&fantasy).Error)

	env.bookA = models.Book{
		Title: "Dune", ISBN: "9780441172719", Price: 50000, StockQuantity: 10,
		PublisherID: publisher.ID, Authors: []models.Author{herbert}, Categories: []models.Category{scifi},
	}
	env.bookB = models.Book{
		Title: "The Hobbit", ISBN: "9780547928227", Price: 30000, StockQuantity: 10,
		PublisherID: publisher.ID, Authors: []models.Author{tolkien}, Categories: []models.Category{fantasy},
	}
	env.bookRare = models.Book{
		Title: "Silmarillion First Edition", ISBN: "9780048231390", Price: 90000, StockQuantity: 1,
		PublisherID: publisher.ID, Authors: []models.Author{tolkien}, Categories: []models.Category{fantasy},
	}
	require.NoError(t, repo.Create(&env.bookA))
	require.NoError(t, repo.Create(&env.bookB))
	require.NoError(t, repo.Create(&env.bookRare))
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON fires a JSON request at the app and decodes the response body
// into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

// registerAndLogin creates a user through the API and returns a token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	register := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", register, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	login := map[string]string{"username": username, "password": "password123"}
	var loginResp map[string]string
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", login, &loginResp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// createAddress adds an address through the API and returns its id.
func createAddress(t *testing.T, app *fiber.App, token string, isDefault bool) string {
	t.Helper()

	body := map[string]interface{}{
		"country":     "Indonesia",
		"city":        "Bandung",
		"street":      "Jalan Braga 99",
		"postal_code": "40111",
		"is_default":  isDefault,
	}
	var address models.Address
	resp := doJSON(t, app, http.MethodPost, "/api/v1/addresses/", token, body, &address)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, address.ID)
	return address.ID
}

func addToCart(t *testing.T, app *fiber.App, token, bookID string, qty int) {
	t.Helper()
	body := map[string]interface{}{"book_id": bookID, "quantity": qty}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, body, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

type cartResponse struct {
	Items []models.CartItem `json:"items"`
	Total int64             `json:"total"`
}

func TestCheckoutFlow(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "buyer1")
	addressID := createAddress(t, env.app, token, true)

	// Two adds of book A must merge into one entry with quantity 2.
	addToCart(t, env.app, token, env.bookA.ID, 1)
	addToCart(t, env.app, token, env.bookA.ID, 1)
	addToCart(t, env.app, token, env.bookB.ID, 1)

	var cart cartResponse
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/cart/", token, nil, &cart)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, cart.Items, 2, "repeat add must merge, not duplicate")
	assert.Equal(t, int64(130000), cart.Total)

	var order models.Order
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, &order)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(130000), order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Len(t, order.Items, 2)

	snapshots := map[string]int64{}
	for _, item := range order.Items {
		snapshots[item.BookID] = item.UnitPrice
	}
	assert.Equal(t, int64(50000), snapshots[env.bookA.ID])
	assert.Equal(t, int64(30000), snapshots[env.bookB.ID])

	// Cart must be empty after checkout.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/cart/", token, nil, &cart)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Total)

	// Stock was decremented inside the checkout transaction.
	var bookA models.Book
	require.NoError(t, env.db.First(&bookA, "id = ?", env.bookA.ID).Error)
	assert.Equal(t, 8, bookA.StockQuantity)

	var orders []models.Order
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/", token, nil, &orders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, orders, 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "buyer2")
	addressID := createAddress(t, env.app, token, true)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var orders []models.Order
	doJSON(t, env.app, http.MethodGet, "/api/v1/orders/", token, nil, &orders)
	assert.Empty(t, orders, "failed checkout must not create an order")
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "buyer3")
	addressID := createAddress(t, env.app, token, true)

	addToCart(t, env.app, token, env.bookRare.ID, 2) // stock is 1

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Nothing may be half-done: no order, cart intact, stock untouched.
	var orders []models.Order
	doJSON(t, env.app, http.MethodGet, "/api/v1/orders/", token, nil, &orders)
	assert.Empty(t, orders)

	var cart cartResponse
	doJSON(t, env.app, http.MethodGet, "/api/v1/cart/", token, nil, &cart)
	assert.Len(t, cart.Items, 1)

	var rare models.Book
	require.NoError(t, env.db.First(&rare, "id = ?", env.bookRare.ID).Error)
	assert.Equal(t, 1, rare.StockQuantity)
}

func TestPaymentFlow(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "buyer4")
	addressID := createAddress(t, env.app, token, true)
	addToCart(t, env.app, token, env.bookA.ID, 2)

	var order models.Order
	doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, &order)

	var payment models.Payment
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/pay", token,
		map[string]interface{}{"method": "card", "amount": 100000}, &payment)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "success", payment.TransactionStatus)

	var detail models.Order
	doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+order.ID, token, nil, &detail)
	assert.Equal(t, models.OrderPaid, detail.Status)
	assert.Len(t, detail.Payments, 1)

	// Exactly one notification for the payment.
	var notifications []models.Notification
	doJSON(t, env.app, http.MethodGet, "/api/v1/notifications/", token, nil, &notifications)
	assert.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)

	// Paying a paid order is an invalid transition.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/pay", token,
		map[string]interface{}{"method": "card", "amount": 100000}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var unread map[string]int64
	doJSON(t, env.app, http.MethodGet, "/api/v1/notifications/unread", token, nil, &unread)
	assert.Equal(t, int64(1), unread["unread"])

	// Mark the notification read.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/notifications/"+notifications[0].ID+"/read", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doJSON(t, env.app, http.MethodGet, "/api/v1/notifications/", token, nil, &notifications)
	assert.True(t, notifications[0].IsRead)

	doJSON(t, env.app, http.MethodGet, "/api/v1/notifications/unread", token, nil, &unread)
	assert.Equal(t, int64(0), unread["unread"])
}

func TestCancelRules(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "buyer5")
	addressID := createAddress(t, env.app, token, true)
	addToCart(t, env.app, token, env.bookA.ID, 1)

	var order models.Order
	doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, &order)

	// pending -> canceled is allowed.
	var canceled models.Order
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil, &canceled)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderCanceled, canceled.Status)

	// canceled is terminal.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A shipped order cannot be canceled either.
	addToCart(t, env.app, token, env.bookB.ID, 1)
	var second models.Order
	doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", token,
		map[string]string{"address_id": addressID}, &second)
	doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+second.ID+"/pay", token,
		map[string]interface{}{"method": "card", "amount": 30000}, nil)
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+second.ID+"/ship", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+second.ID+"/cancel", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDefaultAddressFlips(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "mover")

	first := createAddress(t, env.app, token, true)
	second := createAddress(t, env.app, token, true)

	var addresses []models.Address
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/addresses/", token, nil, &addresses)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, addresses, 2)

	defaults := map[string]bool{}
	for _, a := range addresses {
		defaults[a.ID] = a.IsDefault
	}
	assert.False(t, defaults[first], "previous default must lose the flag")
	assert.True(t, defaults[second])

	// Explicitly flip back via the default endpoint.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/addresses/"+first+"/default", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doJSON(t, env.app, http.MethodGet, "/api/v1/addresses/", token, nil, &addresses)
	defaults = map[string]bool{}
	for _, a := range addresses {
		defaults[a.ID] = a.IsDefault
	}
	assert.True(t, defaults[first])
	assert.False(t, defaults[second])
}

func TestCatalogFilterAndSort(t *testing.T) {
	env := setupApp(t)

	// Author-name search is case-insensitive and matches substrings.
	var books []models.Book
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/books?q=tolkien", "", nil, &books)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, books, 2)

	// Title search.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/books?q=dune", "", nil, &books)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	// Price sort ascending.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/books?sort=price_ascending", "", nil, &books)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, books, 3)
	assert.Equal(t, int64(30000), books[0].Price)
	assert.Equal(t, int64(90000), books[2].Price)

	// Unknown sort option is rejected.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/books?sort=alphabetical", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBookDetailAverageRating(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "critic")

	for _, rating := range []int{5, 2} {
		resp := doJSON(t, env.app, http.MethodPost, "/api/v1/books/"+env.bookA.ID+"/reviews", token,
			map[string]interface{}{"rating": rating, "comment": "spice must flow"}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var detail services.BookDetail
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/books/"+env.bookA.ID, "", nil, &detail)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, detail.Reviews, 2)
	assert.InDelta(t, 3.5, detail.AverageRating, 0.001)
}

func TestWishlistUniqueness(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "wisher")

	for i := 0; i < 2; i++ {
		resp := doJSON(t, env.app, http.MethodPost, "/api/v1/wishlist/", token,
			map[string]string{"book_id": env.bookB.ID}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var items []models.WishlistItem
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/wishlist/", token, nil, &items)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, items, 1, "repeat wishlist add must not duplicate")
}

func TestSupportTicketMessageFloor(t *testing.T) {
	env := setupApp(t)
	token := registerAndLogin(t, env.app, "complainer")

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/support/", token,
		map[string]string{"subject": "Order", "message": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var ticket models.SupportTicket
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/support/", token,
		map[string]string{"subject": "Order", "message": "my order arrived damaged"}, &ticket)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.TicketOpen, ticket.Status)
}

func TestOwnershipDenialIsGeneric(t *testing.T) {
	env := setupApp(t)
	owner := registerAndLogin(t, env.app, "owner")
	intruder := registerAndLogin(t, env.app, "intruder")

	addressID := createAddress(t, env.app, owner, true)
	addToCart(t, env.app, owner, env.bookA.ID, 1)
	var order models.Order
	doJSON(t, env.app, http.MethodPost, "/api/v1/orders/", owner,
		map[string]string{"address_id": addressID}, &order)

	// The intruder sees the same 404 whether the order exists or not.
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+order.ID, intruder, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/does-not-exist", intruder, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+order.ID+"/cancel", intruder, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The owner's address is referenced by the order, but the intruder
	// must see a plain 404, not the protected-delete 422 that would
	// reveal the address exists.
	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/addresses/"+addressID, intruder, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/addresses/"+addressID, owner, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnauthenticatedAccess(t *testing.T) {
	env := setupApp(t)

	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/cart/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Catalog browsing stays public.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/books", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
