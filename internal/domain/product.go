package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is consumed, not owned, by the order workflow: the order path
// reads name and price and decrements stock, nothing more.
type Product struct {
	ID    uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string          `json:"name" gorm:"type:varchar(255);not null"`
	Slug  string          `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	Price decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	// StockQuantity nil means stock is unmanaged: no check, no decrement.
	StockQuantity *int64 `json:"stockQuantity"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
