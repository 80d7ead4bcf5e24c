package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/domain/member"
	"github.com/threadworks/gatehouse/pkg/domain/option"
)

const (
	MemberKeyPattern = "member:%s"
	OptionKeyPattern = "option:%s"

	MemberTTLName = "member"
	OptionTTLName = "option"

	pingTimeout  = 5 * time.Second
	writeTimeout = 2 * time.Second
	scanBatch    = 100

	defaultEntryTTL = 5 * time.Minute
)

// Client is the shared cache: redis behind a process-local hot map,
// plus named TTL maps for entities that skip redis entirely on repeat
// lookups.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	RedisClient() *redis.Client
	CreateTTLMap(name string, ttl time.Duration) *TTLMap
	GetTTLMap(name string) *TTLMap

	GetMember(ctx context.Context, id string) (*member.Member, error)
	SaveMember(ctx context.Context, entity *member.Member) error
	GetOption(ctx context.Context, name string) (*option.Option, error)
	SaveOption(ctx context.Context, entity *option.Option) error
	InvalidateAll(ctx context.Context) error
	ClearAllTTLMaps()
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

type client struct {
	redisClient *redis.Client
	hot         sync.Map
	ttlMaps     sync.Map
	entryTTL    time.Duration
}

func NewClient(config Config, logger *logrus.Logger) (Client, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}

	redisClient := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"host": config.Host,
			"port": config.Port,
		}).Error("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host": config.Host,
		"port": config.Port,
	}).Info("redis connected successfully")

	return newClient(redisClient), nil
}

// NewClientWithRedis wraps an existing redis connection; used by tests
// to plug in a mocked one.
func NewClientWithRedis(redisClient *redis.Client) Client {
	return newClient(redisClient)
}

func newClient(redisClient *redis.Client) *client {
	return &client{
		redisClient: redisClient,
		entryTTL:    defaultEntryTTL,
	}
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	if value, ok := c.hot.Load(key); ok {
		if str, ok := value.(string); ok {
			return str, nil
		}
		c.hot.Delete(key)
	}
	return c.redisClient.Get(ctx, key).Result()
}

func (c *client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.redisClient.Set(ctx, key, value, expiration).Err(); err != nil {
		return err
	}
	c.hot.Store(key, value)
	return nil
}

func (c *client) Delete(ctx context.Context, key string) error {
	if err := c.redisClient.Del(ctx, key).Err(); err != nil {
		return err
	}
	c.hot.Delete(key)
	return nil
}

// InvalidateAll walks the keyspace with SCAN and deletes what it
// finds, dropping the hot-map twin of every deleted key.
func (c *client) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, "*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("error scanning keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("error deleting keys: %w", err)
			}
			for _, key := range keys {
				c.hot.Delete(key)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *client) RedisClient() *redis.Client {
	return c.redisClient
}

func (c *client) CreateTTLMap(name string, ttl time.Duration) *TTLMap {
	m := NewTTLMap(ttl)
	c.ttlMaps.Store(name, m)
	return m
}

func (c *client) GetTTLMap(name string) *TTLMap {
	value, ok := c.ttlMaps.Load(name)
	if !ok {
		return nil
	}
	m, ok := value.(*TTLMap)
	if !ok {
		return nil
	}
	return m
}

func (c *client) ClearAllTTLMaps() {
	c.ttlMaps.Range(func(_, value interface{}) bool {
		if m, ok := value.(*TTLMap); ok {
			m.Clear()
		}
		return true
	})
}

func (c *client) GetMember(ctx context.Context, id string) (*member.Member, error) {
	entity := new(member.Member)
	if err := c.getJSON(ctx, fmt.Sprintf(MemberKeyPattern, id), entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (c *client) SaveMember(ctx context.Context, entity *member.Member) error {
	return c.putJSON(ctx, fmt.Sprintf(MemberKeyPattern, entity.ID.String()), entity)
}

func (c *client) GetOption(ctx context.Context, name string) (*option.Option, error) {
	entity := new(option.Option)
	if err := c.getJSON(ctx, fmt.Sprintf(OptionKeyPattern, name), entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (c *client) SaveOption(ctx context.Context, entity *option.Option) error {
	return c.putJSON(ctx, fmt.Sprintf(OptionKeyPattern, entity.Name), entity)
}

func (c *client) getJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (c *client) putJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(raw), c.entryTTL)
}
