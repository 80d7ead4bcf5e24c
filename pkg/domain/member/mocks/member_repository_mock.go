package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/threadworks/gatehouse/pkg/domain/member"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	entity, ok := args.Get(0).(*member.Member)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *member.Member, got %T", args.Get(0))
	}
	return entity, args.Error(1)
}
