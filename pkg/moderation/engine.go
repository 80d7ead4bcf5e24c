package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/threadworks/gatehouse/pkg/domain/member"
)

// Settings carries the moderation options loaded once per check call.
// Zero values mean the corresponding check is disabled.
type Settings struct {
	ThrottleSeconds int
	MaxLinks        int
	ModerationKeys  string
	DisallowedKeys  string
}

// SettingsSource loads the current Settings. Implementations are
// expected to cache; the engine calls it on every check.
type SettingsSource interface {
	Settings(ctx context.Context) (Settings, error)
}

// MemberSource resolves an actor id to a member record.
type MemberSource interface {
	Find(ctx context.Context, actorID string) (*member.Member, error)
}

// FloodSource reads the actor's last accepted post time. found is
// false when no post is recorded within the throttle window.
type FloodSource interface {
	LastPost(ctx context.Context, actorID string) (lastPostedAt time.Time, found bool, err error)
}

// Submission is one user submission to judge.
type Submission struct {
	ActorID    string `json:"actor_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
}

// Checker is the decision surface exposed to transports. The error
// channel reports collaborator failures only; rule violations always
// come back as a normal result value.
type Checker interface {
	CheckFlood(ctx context.Context, actorID string) (bool, error)
	CheckModeration(ctx context.Context, sub Submission) (Result, error)
	CheckDisallowed(ctx context.Context, sub Submission) (Result, error)
}

// IsAnonymous reports whether actorID identifies no stored member.
// The platform uses "0" for system/anonymous submissions.
func IsAnonymous(actorID string) bool {
	return actorID == "" || actorID == "0"
}

// FloodExceeded reports whether a post at now falls inside the
// throttle window opened by the previous post.
func FloodExceeded(now, lastPostedAt time.Time, window time.Duration) bool {
	return now.Before(lastPostedAt.Add(window))
}

type Engine struct {
	settings     SettingsSource
	members      MemberSource
	flood        FloodSource
	hooks        *Registry
	logger       *logrus.Logger
	messages     Messages
	timeProvider func() time.Time
}

type Opts struct {
	TimeProvider func() time.Time
	Messages     *Messages
}

func NewEngine(
	settings SettingsSource,
	members MemberSource,
	flood FloodSource,
	hooks *Registry,
	logger *logrus.Logger,
	opts *Opts,
) *Engine {
	timeProvider := time.Now
	messages := DefaultMessages()
	if opts != nil && opts.TimeProvider != nil {
		timeProvider = opts.TimeProvider
	}
	if opts != nil && opts.Messages != nil {
		messages = *opts.Messages
	}
	if hooks == nil {
		hooks = NewRegistry()
	}

	return &Engine{
		settings:     settings,
		members:      members,
		flood:        flood,
		hooks:        hooks,
		logger:       logger,
		messages:     messages,
		timeProvider: timeProvider,
	}
}

// CheckFlood decides whether the actor may post again yet. It never
// records anything; the caller stores the new post time after the
// submission is fully accepted.
func (e *Engine) CheckFlood(ctx context.Context, actorID string) (bool, error) {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("load moderation settings: %w", err)
	}
	if settings.ThrottleSeconds <= 0 {
		return true, nil
	}

	// Anonymous actors cannot be rate-limited individually, so they
	// are held back whenever throttling is on.
	if IsAnonymous(actorID) {
		return false, nil
	}

	lastPostedAt, found, err := e.flood.LastPost(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("read last post time: %w", err)
	}
	if !found {
		return true, nil
	}

	if e.hooks.bypassFlood(actorID, lastPostedAt) {
		return true, nil
	}

	window := time.Duration(settings.ThrottleSeconds) * time.Second
	if !FloodExceeded(e.timeProvider(), lastPostedAt, window) {
		return true, nil
	}

	// Inside the window; only a throttle exemption lets it through.
	if m := e.lookupMember(ctx, actorID); m != nil && m.ThrottleExempt {
		return true, nil
	}
	return false, nil
}

// CheckModeration runs the link-count and moderation-keyword rules
// over the submission.
func (e *Engine) CheckModeration(ctx context.Context, sub Submission) (Result, error) {
	if e.hooks.bypassModeration(sub.ActorID, sub.Title, sub.Content) {
		return Accepted(), nil
	}

	m := e.lookupMember(ctx, sub.ActorID)
	if m != nil && m.Unrestricted {
		return Accepted(), nil
	}

	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load moderation settings: %w", err)
	}

	fields := e.buildFields(sub, m)

	if settings.MaxLinks > 0 {
		links := CountLinks(sub.Content)
		maxLinks := settings.MaxLinks
		if m != nil && m.URL != "" {
			maxLinks = e.hooks.adjustMaxLinks(maxLinks, m.URL, sub.Content)
		}
		if links >= maxLinks {
			return e.reject(KindTooManyLinks, Match{}, links), nil
		}
	}

	patterns := ParsePatternList(settings.ModerationKeys)
	if len(patterns) == 0 {
		return Accepted(), nil
	}
	if match, ok := FindMatch(fields, patterns); ok {
		return e.reject(KindWordMatch, match, 0), nil
	}
	return Accepted(), nil
}

// CheckDisallowed runs the disallowed-keyword rule over the
// submission. There is no link step here; a hit on this list is a hard
// rejection rather than a hold for review.
func (e *Engine) CheckDisallowed(ctx context.Context, sub Submission) (Result, error) {
	// The legacy hook point predates the current one. Both are
	// consulted, legacy first, and either may skip the scan.
	if e.hooks.bypassDisallowedLegacy(sub.ActorID, sub.Title, sub.Content) {
		return Accepted(), nil
	}
	if e.hooks.bypassDisallowed(sub.ActorID, sub.Title, sub.Content) {
		return Accepted(), nil
	}

	m := e.lookupMember(ctx, sub.ActorID)
	if m != nil && m.Unrestricted {
		return Accepted(), nil
	}

	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load moderation settings: %w", err)
	}

	patterns := ParsePatternList(settings.DisallowedKeys)
	if len(patterns) == 0 {
		return Accepted(), nil
	}

	fields := e.buildFields(sub, m)
	if match, ok := FindMatch(fields, patterns); ok {
		return e.reject(KindDisallowedMatch, match, 0), nil
	}
	return Accepted(), nil
}

// ClientIP returns the sanitized client address after any registered
// transform hooks.
func (e *Engine) ClientIP(raw string) string {
	return e.hooks.transformIP(SanitizeClientIP(raw))
}

// ClientUserAgent returns the truncated user agent after any
// registered transform hooks.
func (e *Engine) ClientUserAgent(raw string) string {
	return e.hooks.transformUA(SanitizeUserAgent(raw))
}

func (e *Engine) buildFields(sub Submission, m *member.Member) Fields {
	fields := Fields{
		FieldUserIP:  e.ClientIP(sub.RemoteAddr),
		FieldUserUA:  e.ClientUserAgent(sub.UserAgent),
		FieldTitle:   sub.Title,
		FieldContent: sub.Content,
	}
	if m != nil {
		fields[FieldAuthor] = m.DisplayName
		fields[FieldEmail] = m.Email
		fields[FieldURL] = m.URL
	}
	return fields
}

// lookupMember degrades to nil on any failure: a submission from an
// actor whose record cannot be read is judged as anonymous rather than
// erroring the whole check.
func (e *Engine) lookupMember(ctx context.Context, actorID string) *member.Member {
	if IsAnonymous(actorID) {
		return nil
	}
	m, err := e.members.Find(ctx, actorID)
	if err != nil {
		e.logger.WithError(err).WithField("actor_id", actorID).Warn("member lookup failed, treating actor as anonymous")
		return nil
	}
	return m
}

func (e *Engine) reject(kind Kind, match Match, links int) Result {
	return Result{
		Allowed: false,
		Kind:    kind,
		Message: e.messages.For(kind),
		Pattern: match.Pattern,
		Field:   match.Field,
		Links:   links,
	}
}
