package http

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kempan/griptech-sub000/internal/domain"
	"github.com/Kempan/griptech-sub000/internal/mocks"
	"github.com/Kempan/griptech-sub000/internal/repository"
	"github.com/Kempan/griptech-sub000/internal/services"
)

func operationCount(operation string) float64 {
	return testutil.ToFloat64(orderOperations.WithLabelValues(operation, "success"))
}

func TestAdminHandlersRecordOperations(t *testing.T) {
	userID := uint64(8)

	store := mocks.NewMockStore()
	store.OrdersRepo.On("FindByID", mock.Anything, uint64(3)).
		Return(services.CreateMockOrder(3, "WB-00000003", domain.StatusPending, nil), nil)
	store.OrdersRepo.On("Stats", mock.Anything).Return(&repository.OrderStats{}, nil)
	store.OrdersRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	store.UsersRepo.On("FindByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

	r, _ := newTestRouter(store)
	token := bearerToken(t, 1, "admin")

	getBefore := operationCount("admin_get")
	statsBefore := operationCount("statistics")
	connectBefore := operationCount("connect_user")

	w := doRequest(r, http.MethodGet, "/admin/orders/3", "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(r, http.MethodGet, "/admin/orders/statistics", "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(r, http.MethodPut, "/admin/orders/3/connect-user", `{"userId": 8}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, getBefore+1, operationCount("admin_get"))
	assert.Equal(t, statsBefore+1, operationCount("statistics"))
	assert.Equal(t, connectBefore+1, operationCount("connect_user"))
}
