package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Kempan/griptech-sub000/internal/domain"
)

// ErrDuplicateOrderNumber reports a unique-index conflict on the order
// number; the service retries creation with a fresh number.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// ListQuery carries the filter surface shared by the user-facing and admin
// order listings. A nil UserID means unscoped (admin).
type ListQuery struct {
	UserID   *uint64
	Status   domain.OrderStatus
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// OrderStats are the admin dashboard aggregates.
type OrderStats struct {
	TotalOrders     int64
	Revenue         decimal.Decimal
	PendingOrders   int64
	CompletedOrders int64
	Recent          []domain.Order
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, q ListQuery) ([]domain.Order, int64, error)
	Update(ctx context.Context, order *domain.Order) error
	// Delete removes the order's items and then the order row. Callers are
	// expected to run it inside a Store transaction.
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (*OrderStats, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// DecrementStock conditionally takes qty units of managed stock and
	// reports whether a row was actually updated. Zero affected rows means
	// the product is missing, unmanaged, or short on stock; the caller
	// disambiguates from the row it already loaded.
	DecrementStock(ctx context.Context, id uint64, qty int64) (bool, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
}

// Store aggregates the repositories behind one database handle and exposes
// transactions as closures, so the order service can run the whole
// check/decrement/insert pipeline atomically.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	Users() UserRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}
