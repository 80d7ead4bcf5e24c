package hooks

import "github.com/threadworks/gatehouse/pkg/moderation"

// Config is one configured hook entry from the moderation section of
// the service configuration.
type Config struct {
	Name     string                 `mapstructure:"name" yaml:"name"`
	Settings map[string]interface{} `mapstructure:"settings" yaml:"settings"`
}

// Hook is a named extension that attaches behavior to the moderation
// hook registry at startup.
type Hook interface {
	Name() string
	ValidateConfig(config Config) error
	Attach(config Config, registry *moderation.Registry) error
}
