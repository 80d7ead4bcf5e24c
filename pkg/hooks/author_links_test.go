package hooks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/threadworks/gatehouse/pkg/domain/member"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

type stubSettings struct {
	settings moderation.Settings
}

func (s stubSettings) Settings(ctx context.Context) (moderation.Settings, error) {
	return s.settings, nil
}

type stubMembers struct {
	member *member.Member
}

func (s stubMembers) Find(ctx context.Context, actorID string) (*member.Member, error) {
	return s.member, nil
}

type stubFlood struct{}

func (stubFlood) LastPost(ctx context.Context, actorID string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func newLinkEngine(t *testing.T, registry *moderation.Registry, maxLinks int, authorURL string) *moderation.Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	entity := &member.Member{ID: uuid.New(), DisplayName: "alice", URL: authorURL}
	return moderation.NewEngine(
		stubSettings{moderation.Settings{MaxLinks: maxLinks}},
		stubMembers{entity},
		stubFlood{},
		registry,
		logger,
		nil,
	)
}

func TestAuthorLinksHook_GrantsExtraLinkByDefault(t *testing.T) {
	registry := moderation.NewRegistry()
	hook := NewAuthorLinksHook()
	assert.NoError(t, hook.Attach(Config{Name: AuthorLinksHookName}, registry))

	engine := newLinkEngine(t, registry, 2, "https://alice.example")
	sub := moderation.Submission{
		ActorID: uuid.NewString(),
		Content: "see https://a.example and https://b.example",
	}

	result, err := engine.CheckModeration(context.Background(), sub)

	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAuthorLinksHook_ConfiguredAllowance(t *testing.T) {
	registry := moderation.NewRegistry()
	hook := NewAuthorLinksHook()
	cfg := Config{
		Name:     AuthorLinksHookName,
		Settings: map[string]interface{}{"extra_links": 2},
	}
	assert.NoError(t, hook.Attach(cfg, registry))

	engine := newLinkEngine(t, registry, 2, "https://alice.example")
	sub := moderation.Submission{
		ActorID: uuid.NewString(),
		Content: "https://a.example https://b.example https://c.example",
	}

	result, err := engine.CheckModeration(context.Background(), sub)

	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAuthorLinksHook_NoAllowanceWithoutAuthorURL(t *testing.T) {
	registry := moderation.NewRegistry()
	hook := NewAuthorLinksHook()
	assert.NoError(t, hook.Attach(Config{Name: AuthorLinksHookName}, registry))

	engine := newLinkEngine(t, registry, 2, "")
	sub := moderation.Submission{
		ActorID: uuid.NewString(),
		Content: "see https://a.example and https://b.example",
	}

	result, err := engine.CheckModeration(context.Background(), sub)

	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, moderation.KindTooManyLinks, result.Kind)
}

func TestAuthorLinksHook_ValidateConfig(t *testing.T) {
	hook := NewAuthorLinksHook()

	assert.NoError(t, hook.ValidateConfig(Config{Name: AuthorLinksHookName}))
	assert.NoError(t, hook.ValidateConfig(Config{
		Name:     AuthorLinksHookName,
		Settings: map[string]interface{}{"extra_links": 3},
	}))
	assert.Error(t, hook.ValidateConfig(Config{
		Name:     AuthorLinksHookName,
		Settings: map[string]interface{}{"extra_links": -1},
	}))
	assert.Error(t, hook.ValidateConfig(Config{
		Name:     AuthorLinksHookName,
		Settings: map[string]interface{}{"extra_links": "many"},
	}))
}
