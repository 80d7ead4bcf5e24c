package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) CheckFlood(ctx context.Context, actorID string) (bool, error) {
	args := m.Called(ctx, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChecker) CheckModeration(ctx context.Context, sub moderation.Submission) (moderation.Result, error) {
	args := m.Called(ctx, sub)
	result, ok := args.Get(0).(moderation.Result)
	if !ok {
		return moderation.Result{}, fmt.Errorf("expected moderation.Result, got %T", args.Get(0))
	}
	return result, args.Error(1)
}

func (m *MockChecker) CheckDisallowed(ctx context.Context, sub moderation.Submission) (moderation.Result, error) {
	args := m.Called(ctx, sub)
	result, ok := args.Get(0).(moderation.Result)
	if !ok {
		return moderation.Result{}, fmt.Errorf("expected moderation.Result, got %T", args.Get(0))
	}
	return result, args.Error(1)
}
