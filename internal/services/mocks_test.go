package services_test

import (
	"pustaka/internal/models"
	"pustaka/pkg/rabbitmq"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of repositories.AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockAddressRepository) GetForUser(userID, id string) (*models.Address, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

func (m *MockAddressRepository) ListByUser(userID string) ([]models.Address, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Address), args.Error(1)
}

func (m *MockAddressRepository) Update(address *models.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockAddressRepository) SetDefault(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// MockBookRepository is a mock implementation of repositories.BookRepository.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(filter models.BookFilter) ([]models.Book, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) Latest(limit int) ([]models.Book, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(id string) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Update(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBookRepository) ListCategories() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// MockCartRepository is a mock implementation of repositories.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetForUser(userID, id string) (*models.CartItem, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetByUserAndBook(userID, bookID string) (*models.CartItem, error) {
	args := m.Called(userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) Create(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Save(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateFromCart(order *models.Order, items []models.OrderItem) error {
	args := m.Called(order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetForUser(userID, id string) (*models.Order, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) RecordPayment(payment *models.Payment, status models.OrderStatus) error {
	args := m.Called(payment, status)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepository is a mock implementation of repositories.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByBook(bookID string) ([]models.Review, error) {
	args := m.Called(bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(bookID string) (float64, error) {
	args := m.Called(bookID)
	return args.Get(0).(float64), args.Error(1)
}

// MockWishlistRepository is a mock implementation of repositories.WishlistRepository.
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) GetByUserAndBook(userID, bookID string) (*models.WishlistItem, error) {
	args := m.Called(userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) Create(item *models.WishlistItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockWishlistRepository) ListByUser(userID string) ([]models.WishlistItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) Delete(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// MockSupportRepository is a mock implementation of repositories.SupportRepository.
type MockSupportRepository struct {
	mock.Mock
}

func (m *MockSupportRepository) Create(ticket *models.SupportTicket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockSupportRepository) GetByID(id string) (*models.SupportTicket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *MockSupportRepository) ListByUser(userID string) ([]models.SupportTicket, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *MockSupportRepository) UpdateStatus(id string, status models.TicketStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of rabbitmq.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event rabbitmq.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(subject, body, recipient string) error {
	args := m.Called(subject, body, recipient)
	return args.Error(0)
}
