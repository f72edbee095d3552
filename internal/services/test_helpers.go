package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kempan/griptech-sub000/internal/domain"
)

func CreateMockProduct(id uint64, name string, price string, stock *int64) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

func CreateMockOrder(id uint64, number string, status domain.OrderStatus, userID *uint64) *domain.Order {
	o := &domain.Order{
		ID:            id,
		OrderNumber:   number,
		Status:        status,
		UserID:        userID,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		ShippingAddress: domain.Address{
			FirstName:  "Test",
			LastName:   "Customer",
			Address1:   "Storgatan 1",
			City:       "Stockholm",
			PostalCode: "11122",
			Country:    "SE",
		},
		Currency:  domain.DefaultCurrency,
		CreatedAt: time.Now(),
	}
	return o
}

func StockOf(n int64) *int64 {
	return &n
}
