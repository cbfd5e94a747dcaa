package models

import "time"

// OrderStatus is the order lifecycle state. pending and paid may move
// to canceled; shipped, delivered and canceled are terminal except for
// the shipped -> delivered step.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

// Order is an immutable snapshot of a cart at checkout time plus a
// status timeline. TotalAmount equals the sum of unit_price*quantity
// over its items as of creation.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `json:"user_id" gorm:"index;type:varchar(36)"`
	User        User        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AddressID   string      `json:"address_id" gorm:"type:varchar(36)"`
	Address     Address     `json:"address" gorm:"constraint:OnDelete:RESTRICT"`
	TotalAmount int64       `json:"total_amount"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20)"`
	OrderDate   time.Time   `json:"order_date"`
	Items       []OrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Payments    []Payment   `json:"payments,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is the book price
// captured at checkout, deliberately decoupled from the live price.
type OrderItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string `json:"order_id" gorm:"uniqueIndex:idx_order_book;type:varchar(36)"`
	BookID    string `json:"book_id" gorm:"uniqueIndex:idx_order_book;type:varchar(36)"`
	Book      Book   `json:"book" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Payment records one payment attempt against an order. An order may
// accumulate several payment rows; each is immutable once written.
type Payment struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID           string    `json:"order_id" gorm:"index;type:varchar(36)"`
	Method            string    `json:"method" gorm:"type:varchar(50)"`
	Amount            int64     `json:"amount"`
	TransactionStatus string    `json:"transaction_status" gorm:"type:varchar(30)"`
	PaymentDate       time.Time `json:"payment_date"`
}

// CanCancel reports whether the order may still be canceled.
func (o *Order) CanCancel() bool {
	return o.Status == OrderPending || o.Status == OrderPaid
}
