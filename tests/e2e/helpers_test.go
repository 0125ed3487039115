//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/meadowmath/meadowmath-backend/internal/auth"
	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/content"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/engine"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
	"github.com/meadowmath/meadowmath-backend/internal/render"
	"github.com/meadowmath/meadowmath-backend/internal/store"
	"github.com/meadowmath/meadowmath-backend/internal/store/testhelper"
	"github.com/meadowmath/meadowmath-backend/internal/transport/middleware"
	"github.com/meadowmath/meadowmath-backend/internal/transport/rest"
)

const testTokenSecret = "e2e-secret-0123456789abcdef01234"

// contentFS is the content tree every E2E server serves: one published
// grade with a single counting activity and English/Spanish bundles.
var contentFS = fstest.MapFS{
	"data/prek.json": {Data: []byte(`{
		"grade": "prek",
		"levels": [{
			"id": "counting",
			"number": 1,
			"title": "Counting to 10",
			"goal": "Count objects one by one",
			"activities": [{
				"id": "ten-frame",
				"icon": "X",
				"path": "/prek/ten-frame/",
				"title": "Ten Frame",
				"description": "Fill the frame"
			}],
			"learnMore": {
				"resources": [{"title": "Counting Songs", "description": "Sing along"}]
			}
		}]
	}`)},
	"lang/en/common.json": {Data: []byte(`{"tabs":{"activities":"Activities","learnMore":"Learn More"}}`)},
	"lang/en/prek.json":   {Data: []byte(`{"activities":{"ten-frame":{"perfect":"You counted them all!"}}}`)},
	"lang/es/common.json": {Data: []byte(`{"tabs":{"activities":"Actividades"}}`)},
	"lang/es/prek.json":   {Data: []byte(`{}`)},
}

// testServer wraps the full-stack HTTP server backed by a real PostgreSQL
// container.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// setupTestServer builds the complete stack — catalog, library, renderer,
// postgres-backed store, session manager, token manager, router — and serves
// it over httptest. Calling it again with the same pool simulates a restart:
// new process state, same database.
func setupTestServer(t *testing.T, pool *pgxpool.Pool) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	src := i18n.NewFSSource(contentFS)
	cat := i18n.New(src, log, domain.LangEnglish)
	lib := content.NewLibrary(contentFS, log)

	renderer, err := render.New(lib, cat, log)
	require.NoError(t, err)

	st := store.New(store.NewPostgresKV(pool), log)
	mgr := engine.NewManager(log, engine.Settings{
		DefaultTotalRounds: 3,
		SessionTTL:         time.Minute,
		SweepInterval:      time.Minute,
	}, st)

	tokens := auth.NewTokenManager(testTokenSecret, "meadowmath", time.Hour)
	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handlers := rest.Handlers{
		Health:  rest.NewHealthHandler(st, cat, domain.LangEnglish, "e2e"),
		Content: rest.NewContentHandler(lib, src, log),
		Pages: rest.NewPagesHandler(renderer, cat, config.ContentConfig{
			ReadyPollInterval: 10 * time.Millisecond,
			ReadyTimeout:      time.Second,
		}, log),
		Sessions: rest.NewSessionsHandler(rest.SessionManagerDeps{Manager: mgr, Finder: lib, Catalog: cat}, log),
		Profile:  rest.NewProfileHandler(tokens, st, log),
		Progress: rest.NewProgressHandler(st, log),
	}

	router := rest.NewRouter(handlers, log, tokens, config.CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,PUT,PATCH,OPTIONS",
		AllowedHeaders: "Authorization,Content-Type",
		MaxAge:         86400,
	}, limiter, 1000)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Pool: pool}
}

// newTestServer starts (or reuses) the shared container and serves over it.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServer(t, testhelper.SetupTestDB(t))
}

// restRequest sends a JSON request with an optional bearer token and decodes
// the JSON response into out (when non-nil). It returns the status code.
func restRequest(t *testing.T, ts *testServer, method, path, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// createProfile mints a fresh anonymous profile and returns its ID and token.
func createProfile(t *testing.T, ts *testServer) (profileID, token string) {
	t.Helper()

	var resp struct {
		ProfileID string `json:"profileId"`
		Token     string `json:"token"`
	}
	code := restRequest(t, ts, http.MethodPost, "/api/v1/profile", "", nil, &resp)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, resp.ProfileID)
	require.NotEmpty(t, resp.Token)
	return resp.ProfileID, resp.Token
}

// completeSession plays one full session under the given token: rounds
// answers are correct for the first `correct` rounds, then incorrect.
func completeSession(t *testing.T, ts *testServer, token string, rounds, correct int) map[string]any {
	t.Helper()

	var created map[string]any
	code := restRequest(t, ts, http.MethodPost, "/api/v1/sessions", token, map[string]any{
		"grade":       "prek",
		"activityId":  "ten-frame",
		"totalRounds": rounds,
	}, &created)
	require.Equal(t, http.StatusCreated, code)

	id, ok := created["id"].(string)
	require.True(t, ok, "expected session id")

	var last map[string]any
	for i := 0; i < rounds; i++ {
		code = restRequest(t, ts, http.MethodPost, "/api/v1/sessions/"+id+"/answer", token,
			map[string]any{"correct": i < correct}, &last)
		require.Equal(t, http.StatusOK, code)
		code = restRequest(t, ts, http.MethodPost, "/api/v1/sessions/"+id+"/advance", token, nil, &last)
		require.Equal(t, http.StatusOK, code)
	}
	return last
}
