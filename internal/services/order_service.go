package services

import (
	"fmt"
	"sync"
	"time"

	"pustaka/internal/apperr"
	"pustaka/internal/models"
	"pustaka/internal/repositories"
	"pustaka/pkg/mailer"
	"pustaka/pkg/rabbitmq"

	"go.uber.org/zap"
)

// ErrEmptyCart is returned by Checkout when the user's cart has no entries.
var ErrEmptyCart = fmt.Errorf("cart is empty: %w", apperr.ErrPrecondition)

// ErrInvalidAddress is returned by Checkout when the address does not
// exist or belongs to another user.
var ErrInvalidAddress = fmt.Errorf("invalid address: %w", apperr.ErrPrecondition)

// ErrInvalidTransition is returned when an order cannot move to the
// requested status from its current one.
var ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", apperr.ErrValidation)

// PaymentGateway charges an order. The lifecycle only talks to
// payments through this capability so a real gateway can replace the
// stub without touching the state machine.
type PaymentGateway interface {
	Charge(order *models.Order, method string, amount int64) (transactionStatus string, err error)
}

// AlwaysApproveGateway approves every charge. Stand-in until a real
// gateway integration exists.
type AlwaysApproveGateway struct{}

// Charge approves the payment unconditionally.
func (AlwaysApproveGateway) Charge(order *models.Order, method string, amount int64) (string, error) {
	return "success", nil
}

// OrderService owns the order lifecycle: the cart -> order transition,
// payment recording, cancellation and the staff-side shipping steps.
type OrderService struct {
	orderRepo        repositories.OrderRepository
	cartRepo         repositories.CartRepository
	addressRepo      repositories.AddressRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	gateway          PaymentGateway
	events           rabbitmq.EventPublisher
	mail             mailer.Mailer
	logger           *zap.Logger

	// checkoutLocks serializes checkout per user so two overlapping
	// requests cannot both turn the same cart snapshot into orders.
	checkoutLocks sync.Map
}

// NewOrderService creates a new OrderService. events and mail may be
// nil; both are best-effort side channels.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	addressRepo repositories.AddressRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	gateway PaymentGateway,
	events rabbitmq.EventPublisher,
	mail mailer.Mailer,
	logger *zap.Logger,
) *OrderService {
	if gateway == nil {
		gateway = AlwaysApproveGateway{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		addressRepo:      addressRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		events:           events,
		mail:             mail,
		logger:           logger,
	}
}

func (s *OrderService) lockUser(userID string) *sync.Mutex {
	mu, _ := s.checkoutLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Checkout converts the user's cart into an order shipped to the given
// address. Each line's current book price is snapshotted into an order
// item so later price changes cannot reach past orders. The order, its
// items, the stock decrement and the cart drain commit atomically; the
// whole operation is serialized per user.
func (s *OrderService) Checkout(userID, addressID string) (*models.Order, error) {
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addressRepo.GetForUser(userID, addressID)
	if err != nil {
		return nil, ErrInvalidAddress
	}

	var total int64
	items := make([]models.OrderItem, 0, len(cartItems))
	for _, entry := range cartItems {
		items = append(items, models.OrderItem{
			BookID:    entry.BookID,
			Quantity:  entry.Quantity,
			UnitPrice: entry.Book.Price,
		})
		total += entry.Book.Price * int64(entry.Quantity)
	}

	order := &models.Order{
		UserID:      userID,
		AddressID:   address.ID,
		TotalAmount: total,
		Status:      models.OrderPending,
		OrderDate:   time.Now(),
	}
	if err := s.orderRepo.CreateFromCart(order, items); err != nil {
		return nil, err
	}
	order.Items = items
	order.Address = *address

	s.publish("order.created", order)
	return order, nil
}

// RecordPayment charges the order through the gateway, records the
// payment and moves the order to paid in one transaction. The user is
// then notified in-app and, best effort, by email; an email failure is
// logged and swallowed, never failing the payment.
func (s *OrderService) RecordPayment(userID, orderID, method string, amount int64) (*models.Payment, error) {
	order, err := s.orderRepo.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPending {
		return nil, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidTransition)
	}

	status, err := s.gateway.Charge(order, method, amount)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w: %v", apperr.ErrExternal, err)
	}

	payment := &models.Payment{
		OrderID:           order.ID,
		Method:            method,
		Amount:            amount,
		TransactionStatus: status,
		PaymentDate:       time.Now(),
	}
	if err := s.orderRepo.RecordPayment(payment, models.OrderPaid); err != nil {
		return nil, err
	}
	order.Status = models.OrderPaid

	if err := s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Payment of %d received for order %s", amount, order.ID),
		Type:    "order",
	}); err != nil {
		s.logger.Warn("failed to create payment notification",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	s.sendPaymentEmail(userID, order, amount)
	s.publish("order.paid", order)
	return payment, nil
}

// sendPaymentEmail is fire-and-forget with respect to the payment
// outcome: any failure is logged and suppressed.
func (s *OrderService) sendPaymentEmail(userID string, order *models.Order, amount int64) {
	if s.mail == nil {
		return
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Warn("failed to load user for payment email",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	subject := fmt.Sprintf("Order %s paid", order.ID)
	body := fmt.Sprintf("We received your payment of %d for order %s. Thank you for shopping with us.", amount, order.ID)
	if err := s.mail.Send(subject, body, user.Email); err != nil {
		s.logger.Warn("failed to send payment email",
			zap.String("order_id", order.ID),
			zap.String("recipient", user.Email),
			zap.Error(err))
	}
}

// Cancel moves an order to canceled. Only pending and paid orders can
// be canceled; shipped, delivered and canceled are final.
func (s *OrderService) Cancel(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidTransition)
	}
	if err := s.orderRepo.UpdateStatus(order.ID, models.OrderCanceled); err != nil {
		return nil, err
	}
	order.Status = models.OrderCanceled

	s.publish("order.canceled", order)
	return order, nil
}

// MarkShipped moves a paid order to shipped. Staff-side operation.
func (s *OrderService) MarkShipped(orderID string) error {
	return s.advance(orderID, models.OrderPaid, models.OrderShipped, "order.shipped")
}

// MarkDelivered moves a shipped order to delivered. Staff-side operation.
func (s *OrderService) MarkDelivered(orderID string) error {
	return s.advance(orderID, models.OrderShipped, models.OrderDelivered, "order.delivered")
}

func (s *OrderService) advance(orderID string, from, to models.OrderStatus, event string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != from {
		return fmt.Errorf("order %s is %s: %w", order.ID, order.Status, ErrInvalidTransition)
	}
	if err := s.orderRepo.UpdateStatus(order.ID, to); err != nil {
		return err
	}
	order.Status = to
	s.publish(event, order)
	return nil
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetDetail returns one order with items, payments and address loaded.
func (s *OrderService) GetDetail(userID, orderID string) (*models.Order, error) {
	return s.orderRepo.GetForUser(userID, orderID)
}

func (s *OrderService) publish(kind string, order *models.Order) {
	if s.events == nil {
		return
	}
	err := s.events.PublishOrderEvent(rabbitmq.OrderEvent{
		Kind:    kind,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.TotalAmount,
	})
	if err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("kind", kind), zap.String("order_id", order.ID), zap.Error(err))
	}
}
