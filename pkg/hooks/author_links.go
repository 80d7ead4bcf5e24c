package hooks

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

const (
	AuthorLinksHookName = "author_links"
)

// authorLinksConfig configures the extra link allowance for authors
// that have their own URL on file.
type authorLinksConfig struct {
	ExtraLinks int `mapstructure:"extra_links"` // Additional links granted on top of the configured maximum
}

type AuthorLinksHook struct{}

func NewAuthorLinksHook() Hook {
	return &AuthorLinksHook{}
}

func (h *AuthorLinksHook) Name() string {
	return AuthorLinksHookName
}

func (h *AuthorLinksHook) ValidateConfig(config Config) error {
	var cfg authorLinksConfig
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	if cfg.ExtraLinks < 0 {
		return fmt.Errorf("extra_links cannot be negative")
	}

	return nil
}

func (h *AuthorLinksHook) Attach(config Config, registry *moderation.Registry) error {
	var cfg authorLinksConfig
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	// Set defaults
	if cfg.ExtraLinks <= 0 {
		cfg.ExtraLinks = 1
	}

	extra := cfg.ExtraLinks
	registry.OnAdjustMaxLinks(func(maxLinks int, authorURL, content string) int {
		if authorURL == "" {
			return maxLinks
		}
		return maxLinks + extra
	})
	return nil
}
