package dateformat

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnknownLocale is the cause recorded when an identifier parses but no
// built-in locale matches it.
var ErrUnknownLocale = errors.New("no matching locale")

// LocaleResolutionError describes an identifier that fell back to the
// invariant locale. It is only delivered to diagnostics.
type LocaleResolutionError struct {
	ID  string
	Err error
}

func (e *LocaleResolutionError) Error() string {
	return fmt.Sprintf("locale %q unresolved, using %s: %v", e.ID, InvariantID, e.Err)
}

func (e *LocaleResolutionError) Unwrap() error {
	return e.Err
}

// ResolutionListener is told about every identifier that had to fall back.
type ResolutionListener interface {
	LocaleUnresolved(err *LocaleResolutionError)
}

// ResolutionFunc adapts a function to ResolutionListener.
type ResolutionFunc func(err *LocaleResolutionError)

// LocaleUnresolved implements ResolutionListener.
func (f ResolutionFunc) LocaleUnresolved(err *LocaleResolutionError) { f(err) }

// Resolver maps locale identifiers onto the built-in locales. It holds no
// mutable state once constructed.
type Resolver struct {
	locales   []Locale
	matcher   language.Matcher
	listeners []ResolutionListener
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolutionListener registers listeners for fallback diagnostics.
func WithResolutionListener(l ...ResolutionListener) ResolverOption {
	return func(r *Resolver) {
		r.listeners = append(r.listeners, l...)
	}
}

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver constructs a Resolver over the built-in locales.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		locales: builtin,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	// The invariant locale is first and carries language.Und, which makes it
	// the matcher's default.
	tags := make([]language.Tag, len(r.locales))
	for i, l := range r.locales {
		tags[i] = l.tag
	}
	r.matcher = language.NewMatcher(tags)
	return r
}

// ResolveLocale returns the locale best matching id. It never fails: unknown
// or malformed identifiers yield the invariant locale and are reported to
// the logger and listeners instead.
func (r *Resolver) ResolveLocale(id string) Locale {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || strings.EqualFold(trimmed, InvariantID) {
		return r.locales[0]
	}
	loc, err := r.lookup(trimmed)
	if err != nil {
		r.unresolved(&LocaleResolutionError{ID: id, Err: err})
		return r.locales[0]
	}
	return loc
}

// Lookup is the strict form of ResolveLocale used to validate explicitly
// configured identifiers. It reports nothing to listeners.
func (r *Resolver) Lookup(id string) (Locale, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || strings.EqualFold(trimmed, InvariantID) {
		return r.locales[0], nil
	}
	loc, err := r.lookup(trimmed)
	if err != nil {
		return Locale{}, &LocaleResolutionError{ID: id, Err: err}
	}
	return loc, nil
}

func (r *Resolver) lookup(id string) (Locale, error) {
	// POSIX style identifiers such as en_US.UTF-8 carry a codeset and
	// modifier that BCP-47 has no place for.
	if i := strings.IndexAny(id, ".@"); i >= 0 {
		id = id[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return Locale{}, err
	}
	// Low confidence means a different language (gl -> es, be -> ru) or
	// script (zh-TW -> zh-CN); those fall back rather than guess.
	_, idx, conf := r.matcher.Match(tag)
	if conf < language.High {
		return Locale{}, ErrUnknownLocale
	}
	return r.locales[idx], nil
}

func (r *Resolver) unresolved(err *LocaleResolutionError) {
	r.logger.Warn("locale unresolved, falling back", "locale", err.ID, "fallback", InvariantID, "error", err.Err)
	for _, l := range r.listeners {
		l.LocaleUnresolved(err)
	}
}

// Locales returns the locales the resolver matches against.
func (r *Resolver) Locales() []Locale {
	return append([]Locale(nil), r.locales...)
}
