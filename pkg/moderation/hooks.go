package moderation

import "time"

type (
	// FloodBypassFunc may exempt an actor from flood control. It is
	// consulted only when a recent post is on record; lastPostedAt is
	// that post's time.
	FloodBypassFunc func(actorID string, lastPostedAt time.Time) bool

	// ContentBypassFunc may skip a content check for a submission.
	ContentBypassFunc func(actorID, title, content string) bool

	// MaxLinksAdjustFunc may raise (or lower) the effective link
	// maximum for an author with a URL on file.
	MaxLinksAdjustFunc func(max int, authorURL, content string) int

	// TransformFunc rewrites a sanitized client value before it enters
	// the field bag.
	TransformFunc func(value string) string
)

// Registry holds the extension hooks the engine consults. Bypass
// chains short-circuit on the first handler returning true; adjust and
// transform chains run every handler in registration order, each
// feeding the next. Registration is not synchronized: register all
// hooks before handing the registry to an engine.
type Registry struct {
	floodBypass            []FloodBypassFunc
	moderationBypass       []ContentBypassFunc
	disallowedBypass       []ContentBypassFunc
	disallowedBypassLegacy []ContentBypassFunc
	maxLinksAdjust         []MaxLinksAdjustFunc
	ipTransforms           []TransformFunc
	uaTransforms           []TransformFunc
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) OnBypassFlood(fn FloodBypassFunc) {
	r.floodBypass = append(r.floodBypass, fn)
}

func (r *Registry) OnBypassModeration(fn ContentBypassFunc) {
	r.moderationBypass = append(r.moderationBypass, fn)
}

func (r *Registry) OnBypassDisallowed(fn ContentBypassFunc) {
	r.disallowedBypass = append(r.disallowedBypass, fn)
}

// OnBypassDisallowedLegacy registers on the hook point that predates
// OnBypassDisallowed. Handlers registered here are consulted before the
// current chain and receive the same arguments.
//
// Deprecated: register with OnBypassDisallowed instead. This alias is
// kept so policies written against the old hook keep working.
func (r *Registry) OnBypassDisallowedLegacy(fn ContentBypassFunc) {
	r.disallowedBypassLegacy = append(r.disallowedBypassLegacy, fn)
}

func (r *Registry) OnAdjustMaxLinks(fn MaxLinksAdjustFunc) {
	r.maxLinksAdjust = append(r.maxLinksAdjust, fn)
}

func (r *Registry) OnTransformIP(fn TransformFunc) {
	r.ipTransforms = append(r.ipTransforms, fn)
}

func (r *Registry) OnTransformUA(fn TransformFunc) {
	r.uaTransforms = append(r.uaTransforms, fn)
}

func (r *Registry) bypassFlood(actorID string, lastPostedAt time.Time) bool {
	for _, fn := range r.floodBypass {
		if fn(actorID, lastPostedAt) {
			return true
		}
	}
	return false
}

func (r *Registry) bypassModeration(actorID, title, content string) bool {
	for _, fn := range r.moderationBypass {
		if fn(actorID, title, content) {
			return true
		}
	}
	return false
}

func (r *Registry) bypassDisallowed(actorID, title, content string) bool {
	for _, fn := range r.disallowedBypass {
		if fn(actorID, title, content) {
			return true
		}
	}
	return false
}

func (r *Registry) bypassDisallowedLegacy(actorID, title, content string) bool {
	for _, fn := range r.disallowedBypassLegacy {
		if fn(actorID, title, content) {
			return true
		}
	}
	return false
}

func (r *Registry) adjustMaxLinks(max int, authorURL, content string) int {
	for _, fn := range r.maxLinksAdjust {
		max = fn(max, authorURL, content)
	}
	return max
}

func (r *Registry) transformIP(value string) string {
	for _, fn := range r.ipTransforms {
		value = fn(value)
	}
	return value
}

func (r *Registry) transformUA(value string) string {
	for _, fn := range r.uaTransforms {
		value = fn(value)
	}
	return value
}
