package repository

import (
	"context"
	"fmt"

	"github.com/threadworks/gatehouse/pkg/domain/option"
	"gorm.io/gorm"
)

type OptionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) option.Repository {
	return &OptionRepository{
		db: db,
	}
}

// GetByName preserves gorm.ErrRecordNotFound in the wrapped error so
// callers can treat a missing row as a disabled feature.
func (r *OptionRepository) GetByName(ctx context.Context, name string) (*option.Option, error) {
	entity := new(option.Option)
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(entity).Error; err != nil {
		return nil, fmt.Errorf("option not found: %w", err)
	}
	return entity, nil
}
