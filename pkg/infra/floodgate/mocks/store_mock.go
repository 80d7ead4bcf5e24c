package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) LastPost(ctx context.Context, actorID string) (time.Time, bool, error) {
	args := m.Called(ctx, actorID)
	lastPostedAt, ok := args.Get(0).(time.Time)
	if !ok {
		return time.Time{}, false, fmt.Errorf("expected time.Time, got %T", args.Get(0))
	}
	return lastPostedAt, args.Bool(1), args.Error(2)
}

func (m *MockStore) RecordPost(ctx context.Context, actorID string, postedAt time.Time, window time.Duration) error {
	args := m.Called(ctx, actorID, postedAt, window)
	return args.Error(0)
}
