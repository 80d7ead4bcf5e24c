package hooks

import (
	"fmt"

	"github.com/avct/uasurfer"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

const (
	UANormalizerHookName = "ua_normalizer"
)

// UANormalizerHook replaces raw user agent strings with a stable
// browser/OS/device summary so keyword rules match on consistent
// tokens. Strings uasurfer cannot identify pass through unchanged.
type UANormalizerHook struct{}

func NewUANormalizerHook() Hook {
	return &UANormalizerHook{}
}

func (h *UANormalizerHook) Name() string {
	return UANormalizerHookName
}

func (h *UANormalizerHook) ValidateConfig(config Config) error {
	return nil
}

func (h *UANormalizerHook) Attach(config Config, registry *moderation.Registry) error {
	registry.OnTransformUA(func(value string) string {
		ua := uasurfer.Parse(value)
		if ua.Browser.Name == uasurfer.BrowserUnknown && ua.OS.Name == uasurfer.OSUnknown {
			return value
		}

		device := deviceLabel(ua.DeviceType)
		browser := fmt.Sprintf("%s %d.%d", ua.Browser.Name.String(), ua.Browser.Version.Major, ua.Browser.Version.Minor)
		os := fmt.Sprintf("%s %d.%d", ua.OS.Name.String(), ua.OS.Version.Major, ua.OS.Version.Minor)

		return fmt.Sprintf("%s %s %s", device, browser, os)
	})
	return nil
}

func deviceLabel(deviceType uasurfer.DeviceType) string {
	switch deviceType {
	case uasurfer.DeviceComputer:
		return "Computer"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}
