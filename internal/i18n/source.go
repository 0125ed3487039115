package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// ScopeCommon is the shared bundle scope (navigation, buttons, labels).
// Every other scope name is a grade section.
const ScopeCommon = "common"

// Source loads one translation bundle for a language and scope.
type Source interface {
	LoadBundle(ctx context.Context, lang domain.Language, scope string) (Bundle, error)
}

// FSSource reads bundles from a content tree: lang/<lang>/<scope>.json.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a Source over the given filesystem.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// LoadBundle reads and decodes one bundle file.
func (s *FSSource) LoadBundle(_ context.Context, lang domain.Language, scope string) (Bundle, error) {
	path := fmt.Sprintf("lang/%s/%s.json", lang, scope)
	data, err := fs.ReadFile(s.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", path, err)
	}
	return b, nil
}

// HTTPSource fetches bundles from a remote content base URL:
// GET <base>/lang/<lang>/<scope>.json. Any non-2xx status is a hard failure
// for that fetch; there are no partial-content semantics and no retries.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a Source over a remote base URL. A nil client uses
// http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: base, client: client}
}

// LoadBundle performs a single GET for the bundle.
func (s *HTTPSource) LoadBundle(ctx context.Context, lang domain.Language, scope string) (Bundle, error) {
	u, err := url.JoinPath(s.base, "lang", string(lang), scope+".json")
	if err != nil {
		return nil, fmt.Errorf("bundle url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("bundle request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch bundle %s: status %d", u, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", u, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", u, err)
	}
	return b, nil
}
