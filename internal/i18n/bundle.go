// Package i18n loads JSON translation bundles and resolves dot-path keys
// with fallback-language semantics.
package i18n

import "strings"

// Bundle is a decoded translation tree: string keys mapping to nested
// bundles or leaf values (strings, or structured data such as string lists).
type Bundle map[string]any

// Resolve walks a dot-separated path through the bundle. It returns the
// value at the path and whether every segment resolved. Intermediate
// non-map values stop the walk.
func (b Bundle) Resolve(key string) (any, bool) {
	if b == nil || key == "" {
		return nil, false
	}

	var current any = map[string]any(b)
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String resolves a path to a leaf string. Non-string leaves report false.
func (b Bundle) String(key string) (string, bool) {
	v, ok := b.Resolve(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
