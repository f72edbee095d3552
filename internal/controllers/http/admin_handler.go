package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/Kempan/griptech-sub000/internal/services"
)

// AdminHandler serves the back-office order routes. Every route requires the
// admin role.
type AdminHandler struct {
	service *services.OrderService
	rdb     *redis.Client
}

func NewAdminHandler(s *services.OrderService, rdb *redis.Client) *AdminHandler {
	return &AdminHandler{service: s, rdb: rdb}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/admin")
	g.Use(RequireAdmin())

	g.GET("/orders", h.ListOrders)
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders/statistics", h.Statistics)
	g.GET("/orders/:id", h.GetOrder)
	g.PUT("/orders/:id", h.UpdateOrder)
	g.DELETE("/orders/:id", h.DeleteOrder)
	g.PUT("/orders/:id/connect-user", h.ConnectUser)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	defer func() {
		recordOrderOperation("admin_list", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	result, err := h.service.ListOrders(c.Request.Context(), parseListQuery(c))
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

// CreateOrder is the back-office entry into the same creation pipeline the
// public checkout uses; only the acting identity differs.
func (h *AdminHandler) CreateOrder(c *gin.Context) {
	defer func() {
		recordOrderOperation("admin_create", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req.toInput(), actorFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invalidateStats(h.rdb)

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": formatOrder(order)})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	defer func() {
		recordOrderOperation("admin_get", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
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

func (h *AdminHandler) UpdateOrder(c *gin.Context) {
	defer func() {
		recordOrderOperation("admin_update", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	invalidateStats(h.rdb)

	c.JSON(http.StatusOK, gin.H{"success": true, "order": formatOrder(order)})
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	defer func() {
		recordOrderOperation("admin_delete", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	invalidateStats(h.rdb)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ConnectUser(c *gin.Context) {
	defer func() {
		recordOrderOperation("connect_user", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req connectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.ConnectUser(c.Request.Context(), id, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": formatOrder(order)})
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	defer func() {
		recordOrderOperation("statistics", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			var resp statisticsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	stats, err := h.service.Statistics(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := statisticsResponse{
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.TotalRevenue.InexactFloat64(),
		AverageOrderValue: stats.AverageOrderValue.InexactFloat64(),
		PendingOrders:     stats.PendingOrders,
		CompletedOrders:   stats.CompletedOrders,
		RecentOrders:      formatOrders(stats.RecentOrders),
	}

	if h.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			h.rdb.Set(ctx, statsCacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, resp)
}
