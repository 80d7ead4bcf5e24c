package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/threadworks/gatehouse/pkg/domain/member"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) member.Repository {
	return &MemberRepository{
		db: db,
	}
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	entity := new(member.Member)
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(entity).Error; err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}
	return entity, nil
}
