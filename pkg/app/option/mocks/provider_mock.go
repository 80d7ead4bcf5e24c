package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/threadworks/gatehouse/pkg/moderation"
)

type Provider struct {
	mock.Mock
}

func (m *Provider) Settings(ctx context.Context) (moderation.Settings, error) {
	args := m.Called(ctx)
	settings, ok := args.Get(0).(moderation.Settings)
	if !ok {
		return moderation.Settings{}, fmt.Errorf("expected moderation.Settings, got %T", args.Get(0))
	}
	return settings, args.Error(1)
}
