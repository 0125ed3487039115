package i18n

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// failureRetryInterval is how long a failed bundle load is remembered.
// Within the interval Load and LoadSection report the remembered error
// without hitting the source again, so a missing bundle cannot stall every
// request for the full readiness timeout.
const failureRetryInterval = 30 * time.Second

// Catalog holds loaded translation bundles for all languages and hands out
// per-request Localizer views. It is constructed explicitly and passed to
// components; there is no package-level state.
//
// A failed bundle load logs a warning and leaves that language's tree
// partial: lookups fall through to the fallback language or echo the key.
// The catalog never surfaces a translation failure to the caller.
type Catalog struct {
	src      Source
	log      *slog.Logger
	fallback domain.Language
	now      func() time.Time

	mu       sync.RWMutex
	common   map[domain.Language]Bundle
	sections map[domain.Language]map[string]Bundle
	failures map[string]failedLoad
	subs     []func(domain.Language)
}

type failedLoad struct {
	at  time.Time
	err error
}

func failureKey(lang domain.Language, scope string) string {
	return string(lang) + "/" + scope
}

// New creates a Catalog. fallback is the language tried after the active one
// and should itself always have bundles.
func New(src Source, log *slog.Logger, fallback domain.Language) *Catalog {
	return &Catalog{
		src:      src,
		log:      log.With("service", "i18n"),
		fallback: fallback,
		now:      time.Now,
		common:   make(map[domain.Language]Bundle),
		sections: make(map[domain.Language]map[string]Bundle),
		failures: make(map[string]failedLoad),
	}
}

// Load fetches the common bundle for lang unless already cached. Load
// failures are logged and swallowed; the returned error is informational
// for callers that want to know (startup logging), not a hard failure.
func (c *Catalog) Load(ctx context.Context, lang domain.Language) error {
	c.mu.RLock()
	_, cached := c.common[lang]
	c.mu.RUnlock()
	if cached {
		return nil
	}

	if f, ok := c.recentFailure(lang, ScopeCommon); ok {
		return f.err
	}

	b, err := c.src.LoadBundle(ctx, lang, ScopeCommon)
	if err != nil {
		c.recordFailure(lang, ScopeCommon, err)
		c.log.WarnContext(ctx, "common bundle load failed",
			slog.String("lang", string(lang)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.mu.Lock()
	c.common[lang] = b
	delete(c.failures, failureKey(lang, ScopeCommon))
	c.mu.Unlock()

	c.notify(lang)
	return nil
}

// LoadSection fetches one grade section bundle for lang unless cached.
// Same degraded failure semantics as Load.
func (c *Catalog) LoadSection(ctx context.Context, lang domain.Language, section string) error {
	c.mu.RLock()
	_, cached := c.sections[lang][section]
	c.mu.RUnlock()
	if cached {
		return nil
	}

	if f, ok := c.recentFailure(lang, section); ok {
		return f.err
	}

	b, err := c.src.LoadBundle(ctx, lang, section)
	if err != nil {
		c.recordFailure(lang, section, err)
		c.log.WarnContext(ctx, "section bundle load failed",
			slog.String("lang", string(lang)),
			slog.String("section", section),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.mu.Lock()
	if c.sections[lang] == nil {
		c.sections[lang] = make(map[string]Bundle)
	}
	c.sections[lang][section] = b
	delete(c.failures, failureKey(lang, section))
	c.mu.Unlock()

	c.notify(lang)
	return nil
}

// Ready reports whether both the common and section bundles for lang are
// loaded.
func (c *Catalog) Ready(lang domain.Language, section string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.common[lang]; !ok {
		return false
	}
	_, ok := c.sections[lang][section]
	return ok
}

// WaitReady polls Ready on a fixed interval until it holds or the timeout
// elapses, kicking off loads on the first miss. It returns the final
// readiness; on false the caller proceeds degraded (manifest fallback
// strings, key echo).
func (c *Catalog) WaitReady(ctx context.Context, lang domain.Language, section string, interval, timeout time.Duration) bool {
	if c.Ready(lang, section) {
		return true
	}

	// Single load attempt per call; the poll below only waits for a
	// concurrent loader, it never refetches.
	c.Load(ctx, lang)                 //nolint:errcheck
	c.LoadSection(ctx, lang, section) //nolint:errcheck
	if c.Ready(lang, section) {
		return true
	}

	// A load that just failed (or failed recently) is not going to recover
	// within this request's window; degrade immediately instead of burning
	// the whole timeout on every page view.
	if _, failed := c.recentFailure(lang, ScopeCommon); failed {
		return false
	}
	if _, failed := c.recentFailure(lang, section); failed {
		return false
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return c.Ready(lang, section)
		case <-deadline.C:
			return c.Ready(lang, section)
		case <-tick.C:
			if c.Ready(lang, section) {
				return true
			}
		}
	}
}

func (c *Catalog) recentFailure(lang domain.Language, scope string) (failedLoad, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.failures[failureKey(lang, scope)]
	if !ok || c.now().Sub(f.at) >= failureRetryInterval {
		return failedLoad{}, false
	}
	return f, true
}

func (c *Catalog) recordFailure(lang domain.Language, scope string, err error) {
	c.mu.Lock()
	c.failures[failureKey(lang, scope)] = failedLoad{at: c.now(), err: err}
	c.mu.Unlock()
}

// Subscribe registers a listener invoked after a language's bundles change
// (initial load included). Listeners re-derive any cached renderings for
// that language. Subscribe is not safe to call concurrently with notify;
// register listeners during wiring.
func (c *Catalog) Subscribe(fn func(domain.Language)) {
	c.subs = append(c.subs, fn)
}

func (c *Catalog) notify(lang domain.Language) {
	for _, fn := range c.subs {
		fn(lang)
	}
}

// Localizer returns a read view bound to a language and grade section.
// Unsupported languages fall back to the catalog's fallback language.
func (c *Catalog) Localizer(lang domain.Language, section string) *Localizer {
	if _, ok := domain.ParseLanguage(string(lang)); !ok {
		lang = c.fallback
	}
	return &Localizer{cat: c, lang: lang, section: section}
}

// Fallback returns the catalog's fallback language.
func (c *Catalog) Fallback() domain.Language { return c.fallback }

func (c *Catalog) lookup(lang domain.Language, section, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Keys under "section." resolve against the grade's section bundle;
	// everything else against the common bundle.
	if rest, ok := strings.CutPrefix(key, "section."); ok {
		return c.sections[lang][section].Resolve(rest)
	}
	return c.common[lang].Resolve(key)
}
