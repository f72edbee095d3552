package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kempan/griptech-sub000/internal/domain"
	rabbit "github.com/Kempan/griptech-sub000/internal/infra/rabbitmq"
	"github.com/Kempan/griptech-sub000/internal/repository"
)

// orderNumberRetries bounds how often creation is retried after a
// unique-index conflict on the generated order number.
const orderNumberRetries = 3

// Actor is the resolved identity of the caller, taken from the session
// cookie or bearer token. A nil *Actor is an anonymous (guest) caller.
type Actor struct {
	UserID uint64
	Roles  []string
}

func (a *Actor) IsAdmin() bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

type OrderItemInput struct {
	ProductID uint64
	Quantity  int64
	Options   domain.ItemOptions
}

type CreateOrderInput struct {
	Items           []OrderItemInput
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	CustomerNote    string
	PaymentMethod   string
	ShippingAddress *domain.Address
	BillingAddress  *domain.Address
	UserID          *uint64
}

// UpdateOrderInput is a partial admin update; nil fields are left untouched.
type UpdateOrderInput struct {
	Status          *domain.OrderStatus
	AdminNote       *string
	CustomerNote    *string
	PaymentMethod   *string
	PaymentID       *string
	ShippingAddress *domain.Address
	BillingAddress  *domain.Address
}

type ListResult struct {
	Orders    []domain.Order
	Total     int64
	PageCount int
}

type OrderStatistics struct {
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	PendingOrders     int64
	CompletedOrders   int64
	RecentOrders      []domain.Order
}

// OrderService owns the whole order lifecycle: intake validation, pricing,
// stock adjustment, persistence, status transitions and statistics. Both the
// public checkout and the admin console go through it; only the Actor
// differs between the two entry points.
type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	cache     orderCache
	now       func() time.Time
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface, cache Cache) *OrderService {
	return &OrderService{
		store:     store,
		publisher: pub,
		cache:     orderCache{c: cache},
		now:       time.Now,
	}
}

// SetClock overrides the service clock. Tests use it to move time across the
// guest access window.
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput, actor *Actor) (*domain.Order, error) {
	if len(in.Items) == 0 || in.CustomerEmail == "" || in.CustomerName == "" || in.ShippingAddress == nil {
		return nil, ErrMissingOrderInfo
	}
	for _, line := range in.Items {
		if line.ProductID == 0 || line.Quantity < 1 {
			return nil, ErrMissingOrderInfo
		}
	}

	userID, err := s.resolveUser(ctx, in.UserID, actor)
	if err != nil {
		return nil, err
	}

	billing := in.BillingAddress
	if billing == nil {
		shipping := *in.ShippingAddress
		billing = &shipping
	}

	number := domain.NewOrderNumber(s.now())
	var order *domain.Order
	for attempt := 0; ; attempt++ {
		order = &domain.Order{
			OrderNumber:     number,
			Status:          domain.StatusPending,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			CustomerNote:    in.CustomerNote,
			PaymentMethod:   in.PaymentMethod,
			UserID:          userID,
			ShippingAddress: *in.ShippingAddress,
			BillingAddress:  billing,
			Currency:        domain.DefaultCurrency,
		}

		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			items := make([]domain.OrderItem, 0, len(in.Items))
			for _, line := range in.Items {
				p, err := tx.Products().FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				if p == nil {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				if p.StockQuantity != nil {
					if *p.StockQuantity < line.Quantity {
						return &InsufficientStockError{ProductName: p.Name}
					}
					taken, err := tx.Products().DecrementStock(ctx, p.ID, line.Quantity)
					if err != nil {
						return err
					}
					if !taken {
						// Lost a race for the last units since the read above.
						return &InsufficientStockError{ProductName: p.Name}
					}
				}
				items = append(items, domain.OrderItem{
					ProductID:   p.ID,
					ProductName: p.Name,
					Price:       p.Price,
					Quantity:    line.Quantity,
					Options:     line.Options,
				})
			}
			order.Items = items
			order.Price()
			return tx.Orders().Create(ctx, order)
		})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderNumber) && attempt < orderNumberRetries {
			number = domain.RandomOrderNumber()
			continue
		}
		return nil, err
	}

	go s.publishOrderCreated(context.Background(), order)

	return order, nil
}

// resolveUser picks the owning user for a new order: an explicit userId in
// the payload wins, then the authenticated caller, otherwise the order is a
// guest order. An unknown payload userId is logged and skipped rather than
// failing the checkout.
func (s *OrderService) resolveUser(ctx context.Context, bodyUserID *uint64, actor *Actor) (*uint64, error) {
	if bodyUserID != nil {
		u, err := s.store.Users().FindByID(ctx, *bodyUserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return &u.ID, nil
		}
		log.Printf("order intake: user %d not found, creating order without it", *bodyUserID)
	}
	if actor != nil && actor.UserID != 0 {
		u, err := s.store.Users().FindByID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return &u.ID, nil
		}
	}
	return nil, nil
}

// GetOrder fetches one order by id, visible to its owner and to admins.
func (s *OrderService) GetOrder(ctx context.Context, id uint64, actor *Actor) (*domain.Order, error) {
	if o := s.cache.get(ctx, orderIDKey(id)); o != nil {
		return s.scopeOrder(o, actor)
	}
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	s.cache.fill(ctx, o)
	return s.scopeOrder(o, actor)
}

func (s *OrderService) scopeOrder(o *domain.Order, actor *Actor) (*domain.Order, error) {
	if actor.IsAdmin() {
		return o, nil
	}
	if actor == nil || o.UserID == nil || *o.UserID != actor.UserID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// GetOrderByNumber fetches one order by its order number. Orders without an
// owning user stay readable without authentication for the guest access
// window after creation; owned orders require the owner or an admin.
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string, actor *Actor) (*domain.Order, error) {
	if o := s.cache.get(ctx, orderNumberKey(number)); o != nil {
		return s.scopeOrderByNumber(o, actor)
	}
	o, err := s.store.Orders().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	s.cache.fill(ctx, o)
	return s.scopeOrderByNumber(o, actor)
}

func (s *OrderService) scopeOrderByNumber(o *domain.Order, actor *Actor) (*domain.Order, error) {
	if actor.IsAdmin() {
		return o, nil
	}
	if o.UserID == nil {
		if s.now().Sub(o.CreatedAt) <= domain.GuestAccessWindow {
			return o, nil
		}
		return nil, ErrOrderNotFound
	}
	if actor != nil && *o.UserID == actor.UserID {
		return o, nil
	}
	return nil, ErrOrderNotFound
}

// ListUserOrders lists the authenticated caller's own orders.
func (s *OrderService) ListUserOrders(ctx context.Context, actor *Actor, q repository.ListQuery) (*ListResult, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, ErrOrderNotFound
	}
	q.UserID = &actor.UserID
	return s.list(ctx, q)
}

// ListOrders is the unscoped admin listing.
func (s *OrderService) ListOrders(ctx context.Context, q repository.ListQuery) (*ListResult, error) {
	q.UserID = nil
	return s.list(ctx, q)
}

func (s *OrderService) list(ctx context.Context, q repository.ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	orders, total, err := s.store.Orders().List(ctx, q)
	if err != nil {
		return nil, err
	}
	pageCount := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &ListResult{Orders: orders, Total: total, PageCount: pageCount}, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint64, in UpdateOrderInput) (*domain.Order, error) {
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	statusChanged := false
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		statusChanged = o.Status != *in.Status
		o.SetStatus(*in.Status, s.now())
	}
	if in.AdminNote != nil {
		o.AdminNote = *in.AdminNote
	}
	if in.CustomerNote != nil {
		o.CustomerNote = *in.CustomerNote
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentID != nil {
		o.PaymentID = *in.PaymentID
	}
	if in.ShippingAddress != nil {
		o.ShippingAddress = *in.ShippingAddress
	}
	if in.BillingAddress != nil {
		o.BillingAddress = in.BillingAddress
	}

	if err := s.store.Orders().Update(ctx, o); err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, o)

	if statusChanged {
		go s.publishStatusUpdated(context.Background(), o)
	}
	return o, nil
}

// DeleteOrder hard-deletes the order and its items in one transaction.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	var deleted *domain.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		o, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}
		deleted = o
		return tx.Orders().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.invalidate(ctx, deleted)
	return nil
}

// ConnectUser links an order to a user, validating the user exists first.
// A nil userID disconnects the order.
func (s *OrderService) ConnectUser(ctx context.Context, orderID uint64, userID *uint64) (*domain.Order, error) {
	o, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if userID != nil {
		u, err := s.store.Users().FindByID(ctx, *userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrUserNotFound
		}
	}
	o.UserID = userID
	if err := s.store.Orders().Update(ctx, o); err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, o)
	return o, nil
}

func (s *OrderService) Statistics(ctx context.Context) (*OrderStatistics, error) {
	stats, err := s.store.Orders().Stats(ctx)
	if err != nil {
		return nil, err
	}
	avg := decimal.Zero
	if stats.TotalOrders > 0 {
		avg = stats.Revenue.Div(decimal.NewFromInt(stats.TotalOrders)).Round(2)
	}
	return &OrderStatistics{
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.Revenue,
		AverageOrderValue: avg,
		PendingOrders:     stats.PendingOrders,
		CompletedOrders:   stats.CompletedOrders,
		RecentOrders:      stats.Recent,
	}, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total.InexactFloat64(),
		Currency:    order.Currency,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for %s: %v", order.OrderNumber, err)
	}
}

func (s *OrderService) publishStatusUpdated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderStatusUpdatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Occurred:    s.now(),
	}
	if err := s.publisher.Publish(ctx, "order.status_updated", evt); err != nil {
		log.Printf("failed to publish order.status_updated for %s: %v", order.OrderNumber, err)
	}
}
