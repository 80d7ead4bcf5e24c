package option

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	domain "github.com/threadworks/gatehouse/pkg/domain/option"
	"github.com/threadworks/gatehouse/pkg/infra/breaker"
	"github.com/threadworks/gatehouse/pkg/infra/cache"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

var ErrInvalidCacheType = errors.New("invalid type assertion for option model")

// Provider assembles the engine settings from the options table,
// checking the in-process map, then redis, then the database.
type Provider interface {
	Settings(ctx context.Context) (moderation.Settings, error)
}

type provider struct {
	repo        domain.Repository
	cache       cache.Client
	memoryCache *cache.TTLMap
	breaker     breaker.CircuitBreaker
	logger      *logrus.Logger
	sf          singleflight.Group
}

func NewProvider(
	repository domain.Repository,
	c cache.Client,
	logger *logrus.Logger,
) Provider {
	return &provider{
		repo:        repository,
		cache:       c,
		logger:      logger,
		memoryCache: c.GetTTLMap(cache.OptionTTLName),
		breaker:     breaker.NewCircuitBreaker("options-db", 30*time.Second, 5),
	}
}

func (p *provider) Settings(ctx context.Context) (moderation.Settings, error) {
	throttleSeconds, err := p.intValue(ctx, domain.ThrottleSecondsOption)
	if err != nil {
		return moderation.Settings{}, err
	}
	maxLinks, err := p.intValue(ctx, domain.MaxLinksOption)
	if err != nil {
		return moderation.Settings{}, err
	}
	moderationKeys, err := p.stringValue(ctx, domain.ModerationKeysOption)
	if err != nil {
		return moderation.Settings{}, err
	}
	disallowedKeys, err := p.stringValue(ctx, domain.DisallowedKeysOption)
	if err != nil {
		return moderation.Settings{}, err
	}

	return moderation.Settings{
		ThrottleSeconds: throttleSeconds,
		MaxLinks:        maxLinks,
		ModerationKeys:  moderationKeys,
		DisallowedKeys:  disallowedKeys,
	}, nil
}

func (p *provider) intValue(ctx context.Context, name string) (int, error) {
	raw, err := p.stringValue(ctx, name)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"option": name,
			"value":  raw,
		}).Warn("option value is not numeric, treating as disabled")
		return 0, nil
	}
	return n, nil
}

func (p *provider) stringValue(ctx context.Context, name string) (string, error) {
	if entity, err := p.getFromMemoryCache(name); err == nil {
		return entity.Value, nil
	} else if !errors.Is(err, ErrInvalidCacheType) {
		p.logger.WithError(err).Debug("memory cache read option failure")
	}

	if cachedOption, err := p.cache.GetOption(ctx, name); err == nil && cachedOption != nil {
		p.saveToCaches(ctx, cachedOption)
		return cachedOption.Value, nil
	} else if err != nil {
		p.logger.WithError(err).Warn("distributed cache read option failure")
	}

	entity, err := p.loadFromRepository(ctx, name)
	if err != nil {
		return "", err
	}
	p.saveToCaches(ctx, entity)
	return entity.Value, nil
}

// loadFromRepository collapses concurrent loads of the same option and
// fails fast through the breaker while the database is unhealthy.
func (p *provider) loadFromRepository(ctx context.Context, name string) (*domain.Option, error) {
	v, err, _ := p.sf.Do(name, func() (any, error) {
		var entity *domain.Option
		execErr := p.breaker.Execute(func() error {
			result, repoErr := p.repo.GetByName(ctx, name)
			if repoErr != nil {
				// A missing row disables the feature and must not
				// trip the breaker.
				if errors.Is(repoErr, gorm.ErrRecordNotFound) {
					entity = &domain.Option{Name: name}
					return nil
				}
				return repoErr
			}
			entity = result
			return nil
		})
		if execErr != nil {
			return nil, execErr
		}
		return entity, nil
	})
	if err != nil {
		p.logger.WithError(err).WithField("option", name).Error("failed to fetch option from repository")
		return nil, fmt.Errorf("load option %s: %w", name, err)
	}
	entity, ok := v.(*domain.Option)
	if !ok {
		return nil, ErrInvalidCacheType
	}
	return entity, nil
}

func (p *provider) getFromMemoryCache(name string) (*domain.Option, error) {
	cachedValue, found := p.memoryCache.Get(name)
	if !found {
		return nil, errors.New("option not found in memory cache")
	}

	entity, ok := cachedValue.(*domain.Option)
	if !ok {
		return nil, ErrInvalidCacheType
	}

	return entity, nil
}

func (p *provider) saveToCaches(ctx context.Context, entity *domain.Option) {
	p.memoryCache.Set(entity.Name, entity)
	if err := p.cache.SaveOption(ctx, entity); err != nil {
		p.logger.WithError(err).Error("failed to save option to distributed cache")
	}
}
