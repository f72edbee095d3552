package http

import (
	"time"

	"github.com/Kempan/griptech-sub000/internal/domain"
	"github.com/Kempan/griptech-sub000/internal/services"
)

type createOrderItemPayload struct {
	ProductID uint64             `json:"productId"`
	Quantity  int64              `json:"quantity"`
	Options   domain.ItemOptions `json:"options"`
}

type createOrderRequest struct {
	Items           []createOrderItemPayload `json:"items"`
	CustomerEmail   string                   `json:"customerEmail"`
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerNote    string                   `json:"customerNote"`
	PaymentMethod   string                   `json:"paymentMethod"`
	ShippingAddress *domain.Address          `json:"shippingAddress"`
	BillingAddress  *domain.Address          `json:"billingAddress"`
	UserID          *uint64                  `json:"userId"`
}

func (r *createOrderRequest) toInput() services.CreateOrderInput {
	items := make([]services.OrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, services.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Options:   it.Options,
		})
	}
	return services.CreateOrderInput{
		Items:           items,
		CustomerEmail:   r.CustomerEmail,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerNote:    r.CustomerNote,
		PaymentMethod:   r.PaymentMethod,
		ShippingAddress: r.ShippingAddress,
		BillingAddress:  r.BillingAddress,
		UserID:          r.UserID,
	}
}

type updateOrderRequest struct {
	Status          *string         `json:"status"`
	AdminNote       *string         `json:"adminNote"`
	CustomerNote    *string         `json:"customerNote"`
	PaymentMethod   *string         `json:"paymentMethod"`
	PaymentID       *string         `json:"paymentId"`
	ShippingAddress *domain.Address `json:"shippingAddress"`
	BillingAddress  *domain.Address `json:"billingAddress"`
}

func (r *updateOrderRequest) toInput() services.UpdateOrderInput {
	in := services.UpdateOrderInput{
		AdminNote:       r.AdminNote,
		CustomerNote:    r.CustomerNote,
		PaymentMethod:   r.PaymentMethod,
		PaymentID:       r.PaymentID,
		ShippingAddress: r.ShippingAddress,
		BillingAddress:  r.BillingAddress,
	}
	if r.Status != nil {
		status := domain.OrderStatus(*r.Status)
		in.Status = &status
	}
	return in
}

type connectUserRequest struct {
	UserID *uint64 `json:"userId"`
}

// Responses carry monetary amounts as plain numbers; decimals never cross
// the API boundary.

type orderItemResponse struct {
	ID          uint64             `json:"id"`
	ProductID   uint64             `json:"productId"`
	ProductName string             `json:"productName"`
	Price       float64            `json:"price"`
	Quantity    int64              `json:"quantity"`
	Options     domain.ItemOptions `json:"options,omitempty"`
}

type orderResponse struct {
	ID              uint64              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	Status          domain.OrderStatus  `json:"status"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone,omitempty"`
	UserID          *uint64             `json:"userId"`
	ShippingAddress domain.Address      `json:"shippingAddress"`
	BillingAddress  *domain.Address     `json:"billingAddress,omitempty"`
	Subtotal        float64             `json:"subtotal"`
	Tax             float64             `json:"tax"`
	Shipping        float64             `json:"shipping"`
	Discount        *float64            `json:"discount,omitempty"`
	Total           float64             `json:"total"`
	Currency        string              `json:"currency"`
	PaymentMethod   string              `json:"paymentMethod,omitempty"`
	PaymentID       string              `json:"paymentId,omitempty"`
	AdminNote       string              `json:"adminNote,omitempty"`
	CustomerNote    string              `json:"customerNote,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	PaidAt          *time.Time          `json:"paidAt"`
	ShippedAt       *time.Time          `json:"shippedAt"`
	OrderItems      []orderItemResponse `json:"orderItems"`
}

func formatOrder(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price.InexactFloat64(),
			Quantity:    it.Quantity,
			Options:     it.Options,
		})
	}
	resp := orderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		UserID:          o.UserID,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Subtotal:        o.Subtotal.InexactFloat64(),
		Tax:             o.Tax.InexactFloat64(),
		Shipping:        o.Shipping.InexactFloat64(),
		Total:           o.Total.InexactFloat64(),
		Currency:        o.Currency,
		PaymentMethod:   o.PaymentMethod,
		PaymentID:       o.PaymentID,
		AdminNote:       o.AdminNote,
		CustomerNote:    o.CustomerNote,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		OrderItems:      items,
	}
	if o.Discount.Valid {
		discount := o.Discount.Decimal.InexactFloat64()
		resp.Discount = &discount
	}
	return resp
}

func formatOrders(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, formatOrder(&orders[i]))
	}
	return out
}

type listResponse struct {
	Orders    []orderResponse `json:"orders"`
	Total     int64           `json:"total"`
	PageCount int             `json:"pageCount"`
}

type statisticsResponse struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalRevenue      float64         `json:"totalRevenue"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	PendingOrders     int64           `json:"pendingOrders"`
	CompletedOrders   int64           `json:"completedOrders"`
	RecentOrders      []orderResponse `json:"recentOrders"`
}
