package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/Kempan/griptech-sub000/internal/domain"
	"github.com/Kempan/griptech-sub000/internal/repository"
	"github.com/Kempan/griptech-sub000/internal/services"
)

// statsCacheKey caches the admin dashboard aggregates; every order write
// deletes it.
const statsCacheKey = "admin:orders:statistics"

// Handler serves the public (storefront) order routes.
type Handler struct {
	service *services.OrderService
	rdb     *redis.Client
}

func NewHandler(s *services.OrderService, rdb *redis.Client) *Handler {
	return &Handler{service: s, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/user", RequireAuth(), h.ListUserOrders)
	r.GET("/orders/user/:orderNumber", h.GetOrderByNumber)
	r.GET("/orders/:id", RequireAuth(), h.GetOrderByID)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	defer func() {
		recordOrderOperation("create", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req.toInput(), actorFromContext(c))
	if err != nil {
		// The checkout contract surfaces the failure message directly so the
		// storefront can show stock and product errors verbatim.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invalidateStats(h.rdb)

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": formatOrder(order)})
}

func (h *Handler) ListUserOrders(c *gin.Context) {
	defer func() {
		recordOrderOperation("list", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	result, err := h.service.ListUserOrders(c.Request.Context(), actorFromContext(c), parseListQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Orders:    formatOrders(result.Orders),
		Total:     result.Total,
		PageCount: result.PageCount,
	})
}

func (h *Handler) GetOrderByNumber(c *gin.Context) {
	defer func() {
		recordOrderOperation("get_by_number", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	order, err := h.service.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": formatOrder(order)})
}

func (h *Handler) GetOrderByID(c *gin.Context) {
	defer func() {
		recordOrderOperation("get", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": formatOrder(order)})
}

func parseListQuery(c *gin.Context) repository.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return repository.ListQuery{
		Status:   domain.OrderStatus(c.Query("status")),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortOrder"),
	}
}

func invalidateStats(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.Del(context.Background(), statsCacheKey)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingOrderInfo), errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("order handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
