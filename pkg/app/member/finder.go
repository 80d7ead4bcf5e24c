package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	domain "github.com/threadworks/gatehouse/pkg/domain/member"
	"github.com/threadworks/gatehouse/pkg/infra/cache"
	"github.com/threadworks/gatehouse/pkg/infra/prometheus"
)

var ErrInvalidCacheType = errors.New("invalid type assertion for member model")

// Finder resolves an actor id to a member record, checking the
// in-process map, then redis, then the database.
type Finder interface {
	Find(ctx context.Context, actorID string) (*domain.Member, error)
}

type finder struct {
	repo        domain.Repository
	cache       cache.Client
	memoryCache *cache.TTLMap
	logger      *logrus.Logger
}

func NewFinder(
	repository domain.Repository,
	c cache.Client,
	logger *logrus.Logger,
) Finder {
	return &finder{
		repo:        repository,
		cache:       c,
		logger:      logger,
		memoryCache: c.GetTTLMap(cache.MemberTTLName),
	}
}

func (f *finder) Find(ctx context.Context, actorID string) (*domain.Member, error) {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("malformed actor id %q: %w", actorID, err)
	}
	key := id.String()

	if entity, err := f.getFromMemoryCache(key); err == nil {
		f.countLookup("memory")
		return entity, nil
	} else if !errors.Is(err, ErrInvalidCacheType) {
		f.logger.WithError(err).Debug("memory cache read member failure")
	}

	if cachedMember, err := f.cache.GetMember(ctx, key); err == nil && cachedMember != nil {
		f.saveToMemoryCache(ctx, cachedMember)
		f.countLookup("redis")
		return cachedMember, nil
	} else if err != nil {
		f.logger.WithError(err).Warn("distributed cache read member failure")
	}

	entity, err := f.repo.GetByID(ctx, id)
	if err != nil {
		f.logger.WithError(err).Error("failed to fetch member from repository")
		return nil, err
	}

	f.saveToMemoryCache(ctx, entity)
	f.countLookup("database")
	return entity, nil
}

func (f *finder) getFromMemoryCache(key string) (*domain.Member, error) {
	cachedValue, found := f.memoryCache.Get(key)
	if !found {
		return nil, errors.New("member not found in memory cache")
	}

	entity, ok := cachedValue.(*domain.Member)
	if !ok {
		return nil, ErrInvalidCacheType
	}

	return entity, nil
}

func (f *finder) saveToMemoryCache(ctx context.Context, entity *domain.Member) {
	f.memoryCache.Set(entity.ID.String(), entity)
	err := f.cache.SaveMember(ctx, entity)
	if err != nil {
		f.logger.WithError(err).Error("failed to save member to distributed cache")
	}
}

func (f *finder) countLookup(source string) {
	if prometheus.Config.EnableLookups {
		prometheus.MemberLookupTotal.WithLabelValues(source).Inc()
	}
}
