package i18n

import "github.com/meadowmath/meadowmath-backend/internal/domain"

// Localizer resolves translation keys for one language and grade section.
// The zero value is not usable; obtain one from Catalog.Localizer.
type Localizer struct {
	cat     *Catalog
	lang    domain.Language
	section string
}

// T resolves a dot-path key to a string. Resolution order: active language,
// then the fallback language; if neither resolves to a string leaf, the key
// itself is returned. T never fails.
func (l *Localizer) T(key string) string {
	if v, ok := l.cat.lookup(l.lang, l.section, key); ok {
		if s, isStr := v.(string); isStr {
			return s
		}
	}
	if l.lang != l.cat.fallback {
		if v, ok := l.cat.lookup(l.cat.fallback, l.section, key); ok {
			if s, isStr := v.(string); isStr {
				return s
			}
		}
	}
	return key
}

// Raw follows the same resolution path as T but returns the raw leaf value
// (string, list, or nested object) — used when a translation leaf is
// structured data such as a list of bullet points. An unresolved key echoes
// back as a string, matching T.
func (l *Localizer) Raw(key string) any {
	if v, ok := l.cat.lookup(l.lang, l.section, key); ok {
		return v
	}
	if l.lang != l.cat.fallback {
		if v, ok := l.cat.lookup(l.cat.fallback, l.section, key); ok {
			return v
		}
	}
	return key
}

// Has reports whether the key resolves to a translated string, i.e. T would
// return something other than the key echo.
func (l *Localizer) Has(key string) bool {
	return l.T(key) != key
}

// Lang returns the localizer's bound language.
func (l *Localizer) Lang() domain.Language { return l.lang }
