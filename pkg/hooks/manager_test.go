package hooks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

// contentBypassHook lets every submission through the moderation
// check. Used to exercise registration of hooks beyond the built-ins.
type contentBypassHook struct{}

func (contentBypassHook) Name() string { return "content_bypass" }

func (contentBypassHook) ValidateConfig(config Config) error { return nil }

func (contentBypassHook) Attach(config Config, registry *moderation.Registry) error {
	registry.OnBypassModeration(func(actorID, title, content string) bool {
		return true
	})
	return nil
}

func setupManager(t *testing.T) Manager {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewManager(logger)
}

func TestNewManager_RegistersBuiltins(t *testing.T) {
	mgr := setupManager(t)

	assert.NoError(t, mgr.ValidateHook(AuthorLinksHookName, Config{Name: AuthorLinksHookName}))
	assert.NoError(t, mgr.ValidateHook(ProxyChainHookName, Config{Name: ProxyChainHookName}))
	assert.NoError(t, mgr.ValidateHook(UANormalizerHookName, Config{Name: UANormalizerHookName}))
}

func TestManager_RegisterHook_Duplicate(t *testing.T) {
	mgr := setupManager(t)

	err := mgr.RegisterHook(NewAuthorLinksHook())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "hook author_links already registered")
}

func TestManager_ValidateHook_Unknown(t *testing.T) {
	mgr := setupManager(t)

	err := mgr.ValidateHook("bogus", Config{Name: "bogus"})

	assert.EqualError(t, err, "unknown hook: bogus")
}

func TestManager_ValidateHook_InvalidSettings(t *testing.T) {
	mgr := setupManager(t)

	err := mgr.ValidateHook(AuthorLinksHookName, Config{
		Name:     AuthorLinksHookName,
		Settings: map[string]interface{}{"extra_links": -1},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "extra_links cannot be negative")
}

func TestManager_Attach(t *testing.T) {
	mgr := setupManager(t)
	registry := moderation.NewRegistry()

	configs := []Config{
		{Name: AuthorLinksHookName, Settings: map[string]interface{}{"extra_links": 2}},
		{Name: ProxyChainHookName, Settings: map[string]interface{}{"pick": "last"}},
		{Name: UANormalizerHookName},
	}
	assert.NoError(t, mgr.Attach(configs, registry))

	engine := newLinkEngine(t, registry, 2, "https://alice.example")
	assert.Equal(t, "70.41.3.18", engine.ClientIP("203.0.113.5, 70.41.3.18"))

	sub := moderation.Submission{
		ActorID: uuid.NewString(),
		Content: "https://a.example https://b.example https://c.example",
	}
	result, err := engine.CheckModeration(context.Background(), sub)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestManager_Attach_UnknownHookFails(t *testing.T) {
	mgr := setupManager(t)
	registry := moderation.NewRegistry()

	err := mgr.Attach([]Config{{Name: "bogus"}}, registry)

	assert.EqualError(t, err, "unknown hook: bogus")
}

func TestManager_Attach_InvalidSettingsFails(t *testing.T) {
	mgr := setupManager(t)
	registry := moderation.NewRegistry()

	configs := []Config{
		{Name: ProxyChainHookName, Settings: map[string]interface{}{"pick": "middle"}},
	}
	err := mgr.Attach(configs, registry)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pick must be one of")
}

func TestManager_Attach_RegisteredHook(t *testing.T) {
	mgr := setupManager(t)
	assert.NoError(t, mgr.RegisterHook(contentBypassHook{}))

	registry := moderation.NewRegistry()
	assert.NoError(t, mgr.Attach([]Config{{Name: "content_bypass"}}, registry))

	engine := newLinkEngine(t, registry, 1, "")
	sub := moderation.Submission{
		ActorID: uuid.NewString(),
		Content: "https://a.example https://b.example https://c.example",
	}
	result, err := engine.CheckModeration(context.Background(), sub)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}
