package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Kempan/griptech-sub000/internal/domain"
	"github.com/Kempan/griptech-sub000/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

// sortColumns is the allow-list for user-supplied sort fields.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"total":       "total",
	"status":      "status",
	"orderNumber": "order_number",
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_number = ?", number).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, q repository.ListQuery) ([]domain.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Order{})

	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where(
			"LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		direction = "ASC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var orders []domain.Order
	err := tx.
		Order(column + " " + direction).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	// Items are never independently mutated after creation; skip associations.
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *orderRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&domain.Order{}, id).Error
}

func (r *orderRepo) Stats(ctx context.Context) (*repository.OrderStats, error) {
	stats := &repository.OrderStats{Revenue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Order{}).Count(&stats.TotalOrders).Error
	})
	g.Go(func() error {
		var revenue decimal.NullDecimal
		err := r.db.WithContext(gctx).Model(&domain.Order{}).
			Where("status IN ?", domain.RevenueStatuses).
			Select("SUM(total)").
			Scan(&revenue).Error
		if err != nil {
			return err
		}
		if revenue.Valid {
			stats.Revenue = revenue.Decimal
		}
		return nil
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Order{}).
			Where("status = ?", domain.StatusPending).
			Count(&stats.PendingOrders).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&domain.Order{}).
			Where("status = ?", domain.StatusCompleted).
			Count(&stats.CompletedOrders).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Order("created_at DESC").
			Limit(5).
			Preload("Items").
			Find(&stats.Recent).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
