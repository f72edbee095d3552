package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kempan/griptech-sub000/internal/repository"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Orders() repository.OrderRepository {
	return &orderRepo{db: s.db}
}

func (s *store) Products() repository.ProductRepository {
	return &productRepo{db: s.db}
}

func (s *store) Users() repository.UserRepository {
	return &userRepo{db: s.db}
}

func (s *store) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
