package hooks

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

// Manager holds the built-in hooks and attaches the configured ones to
// a registry during startup.
type Manager interface {
	RegisterHook(hook Hook) error
	ValidateHook(name string, config Config) error
	Attach(configs []Config, registry *moderation.Registry) error
}

type manager struct {
	mu     sync.RWMutex
	logger *logrus.Logger
	hooks  map[string]Hook
}

func NewManager(logger *logrus.Logger) Manager {
	m := &manager{
		logger: logger,
		hooks:  make(map[string]Hook),
	}
	m.initializeHooks()
	return m
}

func (m *manager) initializeHooks() {
	if err := m.RegisterHook(NewAuthorLinksHook()); err != nil {
		m.logger.WithError(err).Error("failed to register author links hook")
	}
	if err := m.RegisterHook(NewProxyChainHook()); err != nil {
		m.logger.WithError(err).Error("failed to register proxy chain hook")
	}
	if err := m.RegisterHook(NewUANormalizerHook()); err != nil {
		m.logger.WithError(err).Error("failed to register ua normalizer hook")
	}
}

func (m *manager) RegisterHook(hook Hook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := hook.Name()
	if _, exists := m.hooks[name]; exists {
		return fmt.Errorf("hook %s already registered", name)
	}
	m.hooks[name] = hook
	return nil
}

func (m *manager) ValidateHook(name string, config Config) error {
	m.mu.RLock()
	hook, exists := m.hooks[name]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("unknown hook: %s", name)
	}

	if err := hook.ValidateConfig(config); err != nil {
		m.logger.WithError(err).Errorf("hook %s validation failed", name)
		return err
	}

	return nil
}

// Attach validates and attaches every configured hook. A single bad
// entry fails the whole startup rather than running with a partial
// policy.
func (m *manager) Attach(configs []Config, registry *moderation.Registry) error {
	for _, cfg := range configs {
		if err := m.ValidateHook(cfg.Name, cfg); err != nil {
			return err
		}

		m.mu.RLock()
		hook := m.hooks[cfg.Name]
		m.mu.RUnlock()

		if err := hook.Attach(cfg, registry); err != nil {
			return fmt.Errorf("attach hook %s: %w", cfg.Name, err)
		}
		m.logger.WithField("hook", cfg.Name).Info("moderation hook attached")
	}
	return nil
}
