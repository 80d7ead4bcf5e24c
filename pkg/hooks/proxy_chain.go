package hooks

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

const (
	ProxyChainHookName = "proxy_chain"

	pickFirst = "first"
	pickLast  = "last"
)

// proxyChainConfig configures which hop survives when the reported
// client address is a comma-separated proxy chain.
type proxyChainConfig struct {
	Pick string `mapstructure:"pick"` // "first" (originating client) or "last" (nearest proxy)
}

type ProxyChainHook struct{}

func NewProxyChainHook() Hook {
	return &ProxyChainHook{}
}

func (h *ProxyChainHook) Name() string {
	return ProxyChainHookName
}

func (h *ProxyChainHook) ValidateConfig(config Config) error {
	var cfg proxyChainConfig
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	if cfg.Pick != "" && cfg.Pick != pickFirst && cfg.Pick != pickLast {
		return fmt.Errorf("pick must be one of: first, last")
	}

	return nil
}

func (h *ProxyChainHook) Attach(config Config, registry *moderation.Registry) error {
	var cfg proxyChainConfig
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	// Set defaults
	if cfg.Pick == "" {
		cfg.Pick = pickFirst
	}

	pick := cfg.Pick
	registry.OnTransformIP(func(value string) string {
		hops := strings.Split(value, ",")
		var kept []string
		for _, hop := range hops {
			hop = strings.TrimSpace(hop)
			if hop != "" {
				kept = append(kept, hop)
			}
		}
		if len(kept) == 0 {
			return ""
		}
		if pick == pickLast {
			return kept[len(kept)-1]
		}
		return kept[0]
	})
	return nil
}
