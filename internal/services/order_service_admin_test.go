package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kempan/griptech-sub000/internal/domain"
	"github.com/Kempan/griptech-sub000/internal/mocks"
	"github.com/Kempan/griptech-sub000/internal/repository"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestOrderService_UpdateOrder_StatusSideEffects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	order := CreateMockOrder(1, "WB-00000001", domain.StatusPending, nil)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(1)).Return(order, nil)
	store.OrdersRepo.On("Update", mock.Anything, order).Return(nil)
	pub.On("Publish", mock.Anything, "order.status_updated", mock.Anything).Return(nil).Maybe()

	service := NewOrderService(store, pub, nil)
	service.SetClock(fixedClock(now))

	completed := domain.StatusCompleted
	updated, err := service.UpdateOrder(context.Background(), 1, UpdateOrderInput{Status: &completed})
	require.NoError(t, err)

	require.NotNil(t, updated.ShippedAt)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, now, *updated.ShippedAt)
	assert.Equal(t, now, *updated.PaidAt)

	// repeating the same transition must not move the timestamps
	later := now.Add(48 * time.Hour)
	service.SetClock(fixedClock(later))

	updated, err = service.UpdateOrder(context.Background(), 1, UpdateOrderInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, now, *updated.ShippedAt)
	assert.Equal(t, now, *updated.PaidAt)

	time.Sleep(50 * time.Millisecond)
	store.AssertExpectations(t)
}

func TestOrderService_UpdateOrder_ProcessingSetsPaidOnly(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	order := CreateMockOrder(1, "WB-00000001", domain.StatusPending, nil)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(1)).Return(order, nil)
	store.OrdersRepo.On("Update", mock.Anything, order).Return(nil)
	pub.On("Publish", mock.Anything, "order.status_updated", mock.Anything).Return(nil).Maybe()

	service := NewOrderService(store, pub, nil)
	service.SetClock(fixedClock(now))

	processing := domain.StatusProcessing
	updated, err := service.UpdateOrder(context.Background(), 1, UpdateOrderInput{Status: &processing})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidAt)
	assert.Nil(t, updated.ShippedAt)

	time.Sleep(50 * time.Millisecond)
}

func TestOrderService_UpdateOrder_RejectsUnknownStatus(t *testing.T) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	order := CreateMockOrder(1, "WB-00000001", domain.StatusPending, nil)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(1)).Return(order, nil)

	service := NewOrderService(store, pub, nil)
	bogus := domain.OrderStatus("SHIPPED_MAYBE")
	_, err := service.UpdateOrder(context.Background(), 1, UpdateOrderInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderService_GetOrderByNumber_GuestWindow(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	guestOrder := CreateMockOrder(1, "WB-00000001", domain.StatusPending, nil)
	guestOrder.CreatedAt = created

	tests := []struct {
		name      string
		clock     time.Time
		actor     *Actor
		wantFound bool
	}{
		{"guest within window", created.Add(1 * time.Hour), nil, true},
		{"guest just inside the edge", created.Add(24 * time.Hour), nil, true},
		{"guest past the window", created.Add(25 * time.Hour), nil, false},
		{"admin past the window", created.Add(48 * time.Hour), &Actor{UserID: 9, Roles: []string{"admin"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			pub := new(mocks.MockPublisher)
			store.OrdersRepo.On("FindByNumber", mock.Anything, "WB-00000001").Return(guestOrder, nil)

			service := NewOrderService(store, pub, nil)
			service.SetClock(fixedClock(tt.clock))

			o, err := service.GetOrderByNumber(context.Background(), "WB-00000001", tt.actor)
			if tt.wantFound {
				require.NoError(t, err)
				assert.Equal(t, "WB-00000001", o.OrderNumber)
			} else {
				assert.ErrorIs(t, err, ErrOrderNotFound)
			}
		})
	}
}

func TestOrderService_GetOrderByNumber_OwnedOrder(t *testing.T) {
	owner := uint64(5)
	order := CreateMockOrder(2, "WB-00000002", domain.StatusPending, &owner)

	tests := []struct {
		name      string
		actor     *Actor
		wantFound bool
	}{
		{"owner sees it", &Actor{UserID: owner}, true},
		{"stranger does not", &Actor{UserID: 99}, false},
		{"anonymous does not", nil, false},
		{"admin sees it", &Actor{UserID: 1, Roles: []string{"admin"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			pub := new(mocks.MockPublisher)
			store.OrdersRepo.On("FindByNumber", mock.Anything, "WB-00000002").Return(order, nil)

			service := NewOrderService(store, pub, nil)
			_, err := service.GetOrderByNumber(context.Background(), "WB-00000002", tt.actor)
			if tt.wantFound {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOrderNotFound)
			}
		})
	}
}

func TestOrderService_GetOrder_OwnerScoping(t *testing.T) {
	owner := uint64(5)
	order := CreateMockOrder(3, "WB-00000003", domain.StatusPending, &owner)

	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(3)).Return(order, nil)

	service := NewOrderService(store, pub, nil)

	got, err := service.GetOrder(context.Background(), 3, &Actor{UserID: owner})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = service.GetOrder(context.Background(), 3, &Actor{UserID: 6})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListUserOrders_Pagination(t *testing.T) {
	actor := &Actor{UserID: 5}

	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	page2 := []domain.Order{
		*CreateMockOrder(11, "WB-00000011", domain.StatusPending, &actor.UserID),
		*CreateMockOrder(12, "WB-00000012", domain.StatusPending, &actor.UserID),
		*CreateMockOrder(13, "WB-00000013", domain.StatusPending, &actor.UserID),
		*CreateMockOrder(14, "WB-00000014", domain.StatusPending, &actor.UserID),
		*CreateMockOrder(15, "WB-00000015", domain.StatusPending, &actor.UserID),
	}
	store.OrdersRepo.On("List", mock.Anything, mock.MatchedBy(func(q repository.ListQuery) bool {
		return q.UserID != nil && *q.UserID == actor.UserID && q.Page == 2 && q.PageSize == 10
	})).Return(page2, int64(15), nil)

	service := NewOrderService(store, pub, nil)
	result, err := service.ListUserOrders(context.Background(), actor, repository.ListQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, result.Orders, 5)
	assert.Equal(t, int64(15), result.Total)
	assert.Equal(t, 2, result.PageCount)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	order := CreateMockOrder(4, "WB-00000004", domain.StatusPending, nil)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(4)).Return(order, nil)
	store.OrdersRepo.On("Delete", mock.Anything, uint64(4)).Return(nil)

	service := NewOrderService(store, pub, nil)
	require.NoError(t, service.DeleteOrder(context.Background(), 4))

	store.AssertExpectations(t)
}

func TestOrderService_DeleteOrder_NotFound(t *testing.T) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(99)).Return(nil, nil)

	service := NewOrderService(store, pub, nil)
	assert.ErrorIs(t, service.DeleteOrder(context.Background(), 99), ErrOrderNotFound)
}

func TestOrderService_ConnectUser(t *testing.T) {
	t.Run("links an existing user", func(t *testing.T) {
		store := mocks.NewMockStore()
		pub := new(mocks.MockPublisher)

		order := CreateMockOrder(5, "WB-00000005", domain.StatusPending, nil)
		userID := uint64(8)
		store.OrdersRepo.On("FindByID", mock.Anything, uint64(5)).Return(order, nil)
		store.UsersRepo.On("FindByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
		store.OrdersRepo.On("Update", mock.Anything, order).Return(nil)

		service := NewOrderService(store, pub, nil)
		updated, err := service.ConnectUser(context.Background(), 5, &userID)
		require.NoError(t, err)
		require.NotNil(t, updated.UserID)
		assert.Equal(t, userID, *updated.UserID)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		store := mocks.NewMockStore()
		pub := new(mocks.MockPublisher)

		owner := uint64(8)
		order := CreateMockOrder(5, "WB-00000005", domain.StatusPending, &owner)
		missing := uint64(77)
		store.OrdersRepo.On("FindByID", mock.Anything, uint64(5)).Return(order, nil)
		store.UsersRepo.On("FindByID", mock.Anything, missing).Return(nil, nil)

		service := NewOrderService(store, pub, nil)
		_, err := service.ConnectUser(context.Background(), 5, &missing)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("nil disconnects", func(t *testing.T) {
		store := mocks.NewMockStore()
		pub := new(mocks.MockPublisher)

		owner := uint64(8)
		order := CreateMockOrder(5, "WB-00000005", domain.StatusPending, &owner)
		store.OrdersRepo.On("FindByID", mock.Anything, uint64(5)).Return(order, nil)
		store.OrdersRepo.On("Update", mock.Anything, order).Return(nil)

		service := NewOrderService(store, pub, nil)
		updated, err := service.ConnectUser(context.Background(), 5, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.UserID)
	})
}

func TestOrderService_Statistics(t *testing.T) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	store.OrdersRepo.On("Stats", mock.Anything).Return(&repository.OrderStats{
		TotalOrders:     4,
		Revenue:         decimal.RequireFromString("1000.00"),
		PendingOrders:   1,
		CompletedOrders: 2,
		Recent:          []domain.Order{*CreateMockOrder(1, "WB-00000001", domain.StatusCompleted, nil)},
	}, nil)

	service := NewOrderService(store, pub, nil)
	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.True(t, stats.AverageOrderValue.Equal(decimal.RequireFromString("250.00")), "avg %s", stats.AverageOrderValue)
	assert.Len(t, stats.RecentOrders, 1)
}

func TestOrderService_Statistics_ZeroOrders(t *testing.T) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)

	store.OrdersRepo.On("Stats", mock.Anything).Return(&repository.OrderStats{Revenue: decimal.Zero}, nil)

	service := NewOrderService(store, pub, nil)
	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.AverageOrderValue.IsZero())
}
