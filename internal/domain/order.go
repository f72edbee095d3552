package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusOnHold     OrderStatus = "ON_HOLD"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
	StatusFailed     OrderStatus = "FAILED"
)

// OrderStatuses lists every status an admin update may write.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusOnHold,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
	StatusFailed,
}

// RevenueStatuses are the statuses counted as realized revenue.
var RevenueStatuses = []OrderStatus{StatusCompleted, StatusProcessing}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Address is the structured shipping/billing record. It is persisted as a
// JSON column but always handled as a typed value inside the service.
type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// ItemOptions holds free-form per-line options such as size or color.
type ItemOptions map[string]string

type Order struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber string      `json:"orderNumber" gorm:"type:varchar(32);uniqueIndex;not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`

	// Customer contact fields are snapshots taken at order time. They are
	// intentionally denormalized: guest orders have no user row at all, and
	// registered users may edit their profile after checkout.
	CustomerName  string  `json:"customerName" gorm:"type:varchar(255);not null"`
	CustomerEmail string  `json:"customerEmail" gorm:"type:varchar(255);not null"`
	CustomerPhone string  `json:"customerPhone" gorm:"type:varchar(64)"`
	UserID        *uint64 `json:"userId" gorm:"index"`

	ShippingAddress Address  `json:"shippingAddress" gorm:"serializer:json;not null"`
	BillingAddress  *Address `json:"billingAddress" gorm:"serializer:json"`

	Subtotal decimal.Decimal     `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax      decimal.Decimal     `json:"tax" gorm:"type:decimal(10,2);not null"`
	Shipping decimal.Decimal     `json:"shipping" gorm:"type:decimal(10,2);not null"`
	Discount decimal.NullDecimal `json:"discount" gorm:"type:decimal(10,2)"`
	Total    decimal.Decimal     `json:"total" gorm:"type:decimal(10,2);not null"`
	Currency string              `json:"currency" gorm:"type:varchar(3);not null;default:'SEK'"`

	PaymentMethod string `json:"paymentMethod" gorm:"type:varchar(64)"`
	PaymentID     string `json:"paymentId" gorm:"type:varchar(255)"`

	AdminNote    string `json:"adminNote" gorm:"type:text"`
	CustomerNote string `json:"customerNote" gorm:"type:text"`

	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
	PaidAt    *time.Time `json:"paidAt"`
	ShippedAt *time.Time `json:"shippedAt"`

	Items []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `json:"orderId" gorm:"not null;index"`
	ProductID uint64 `json:"productId" gorm:"not null;index"`

	// ProductName and Price are frozen at order-creation time and never
	// re-read from the product row.
	ProductName string          `json:"productName" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	Options     ItemOptions     `json:"options" gorm:"serializer:json"`
}

// SetStatus writes the status and applies its timestamp side effects:
// COMPLETED marks the order shipped, COMPLETED and PROCESSING mark it paid.
// Both timestamps are one-way and never cleared by later transitions.
func (o *Order) SetStatus(status OrderStatus, now time.Time) {
	o.Status = status
	if status == StatusCompleted && o.ShippedAt == nil {
		o.ShippedAt = &now
	}
	if (status == StatusCompleted || status == StatusProcessing) && o.PaidAt == nil {
		o.PaidAt = &now
	}
}

// GuestAccessWindow is how long an order without an owning user stays
// retrievable by order number without authentication.
const GuestAccessWindow = 24 * time.Hour
