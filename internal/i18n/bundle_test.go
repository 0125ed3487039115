package i18n

import (
	"encoding/json"
	"testing"
)

func mustBundle(t *testing.T, raw string) Bundle {
	t.Helper()
	var b Bundle
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	return b
}

func TestBundleResolve(t *testing.T) {
	b := mustBundle(t, `{
		"nav": {"home": "Home", "back": "Back"},
		"levels": {"level1": {"title": "Counting to 10"}},
		"tips": ["count on fingers", "count out loud"]
	}`)

	tests := []struct {
		name   string
		key    string
		want   any
		wantOK bool
	}{
		{"top level leaf", "nav.home", "Home", true},
		{"deep leaf", "levels.level1.title", "Counting to 10", true},
		{"missing segment", "nav.missing", nil, false},
		{"missing root", "footer.home", nil, false},
		{"path through leaf", "nav.home.extra", nil, false},
		{"empty key", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.Resolve(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	// Structured leaf resolves as raw value.
	v, ok := b.Resolve("tips")
	if !ok {
		t.Fatal("tips should resolve")
	}
	list, isList := v.([]any)
	if !isList || len(list) != 2 {
		t.Errorf("tips = %v, want 2-element list", v)
	}

	// String accessor rejects non-string leaves.
	if _, ok := b.String("tips"); ok {
		t.Error("String(tips) should report false for a list leaf")
	}
	if s, ok := b.String("nav.back"); !ok || s != "Back" {
		t.Errorf("String(nav.back) = (%q, %v)", s, ok)
	}
}

func TestBundleResolve_NilBundle(t *testing.T) {
	var b Bundle
	if _, ok := b.Resolve("anything"); ok {
		t.Error("nil bundle should never resolve")
	}
}
