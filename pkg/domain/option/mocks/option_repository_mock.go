package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/threadworks/gatehouse/pkg/domain/option"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) GetByName(ctx context.Context, name string) (*option.Option, error) {
	args := m.Called(ctx, name)
	entity, ok := args.Get(0).(*option.Option)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *option.Option, got %T", args.Get(0))
	}
	return entity, args.Error(1)
}
