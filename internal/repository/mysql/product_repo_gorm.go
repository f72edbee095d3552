package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Kempan/griptech-sub000/internal/domain"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// DecrementStock guards against concurrent overselling: the stock check is
// part of the UPDATE itself, so two racing orders for the last unit cannot
// both succeed.
func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity IS NOT NULL AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
