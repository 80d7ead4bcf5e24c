package option

import (
	"errors"
	"time"
)

// Names of the options read by the moderation engine. A missing row
// means the corresponding check is disabled.
const (
	ThrottleSecondsOption = "throttle_seconds"
	MaxLinksOption        = "max_links"
	ModerationKeysOption  = "moderation_keys"
	DisallowedKeysOption  = "disallowed_keys"
)

var ErrInvalidName = errors.New("option name cannot be empty")

// Option is a single named configuration value. Keyword blobs are
// stored as raw multi-line strings; numeric options as decimal text.
type Option struct {
	Name      string    `json:"name" gorm:"primaryKey"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewOption(name, value string) (*Option, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	return &Option{
		Name:  name,
		Value: value,
	}, nil
}

func (o Option) TableName() string {
	return "public.options"
}
