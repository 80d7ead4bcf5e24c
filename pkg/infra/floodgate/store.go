package floodgate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	LastPostKeyPattern = "floodgate:lastpost:%s"
)

// Store tracks when each actor last had a submission accepted. The
// marker lives exactly as long as the throttle window, so a hit always
// means the actor posted within it.
type Store interface {
	LastPost(ctx context.Context, actorID string) (lastPostedAt time.Time, found bool, err error)
	RecordPost(ctx context.Context, actorID string, postedAt time.Time, window time.Duration) error
}

type redisStore struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewRedisStore(redisClient *redis.Client, logger *logrus.Logger) Store {
	return &redisStore{
		redisClient: redisClient,
		logger:      logger,
	}
}

func (s *redisStore) LastPost(ctx context.Context, actorID string) (time.Time, bool, error) {
	key := fmt.Sprintf(LastPostKeyPattern, actorID)
	val, err := s.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read last post marker: %w", err)
	}

	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("discarding malformed last post marker")
		return time.Time{}, false, nil
	}
	return time.Unix(ts, 0), true, nil
}

func (s *redisStore) RecordPost(ctx context.Context, actorID string, postedAt time.Time, window time.Duration) error {
	// Without a window the marker would never expire; with throttling
	// off there is nothing to record.
	if window <= 0 {
		return nil
	}
	key := fmt.Sprintf(LastPostKeyPattern, actorID)
	value := strconv.FormatInt(postedAt.Unix(), 10)
	if err := s.redisClient.Set(ctx, key, value, window).Err(); err != nil {
		return fmt.Errorf("store last post marker: %w", err)
	}
	return nil
}
