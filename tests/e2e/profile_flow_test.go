//go:build e2e

package e2e_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadowmath/meadowmath-backend/internal/store/testhelper"
)

// TestE2E_ProfileProgress_SurvivesRestart plays a session to completion
// under a profile, then rebuilds the entire server stack over the same
// database and verifies the profile token still resolves the recorded
// progress. This is the restart path an in-memory store cannot cover.
func TestE2E_ProfileProgress_SurvivesRestart(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ts := setupTestServer(t, pool)

	_, token := createProfile(t, ts)
	last := completeSession(t, ts, token, 3, 2)

	state, ok := last["state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "complete", state["phase"])

	// "Restart": fresh process state, same database, same token secret.
	ts2 := setupTestServer(t, pool)

	var progress map[string]map[string]map[string]any
	code := restRequest(t, ts2, http.MethodGet, "/api/v1/progress", token, nil, &progress)
	require.Equal(t, http.StatusOK, code)

	entry, ok := progress["prek"]["ten-frame"]
	require.True(t, ok, "expected recorded progress for ten-frame")
	assert.Equal(t, true, entry["completed"])
	assert.Equal(t, float64(2), entry["bestScore"])
	assert.Equal(t, float64(1), entry["plays"])
}

// TestE2E_BestScore_NeverRegresses verifies a worse replay keeps the earlier
// best score while plays keep counting.
func TestE2E_BestScore_NeverRegresses(t *testing.T) {
	ts := newTestServer(t)
	_, token := createProfile(t, ts)

	completeSession(t, ts, token, 3, 3)
	completeSession(t, ts, token, 3, 1)

	var progress map[string]map[string]map[string]any
	code := restRequest(t, ts, http.MethodGet, "/api/v1/progress", token, nil, &progress)
	require.Equal(t, http.StatusOK, code)

	entry := progress["prek"]["ten-frame"]
	assert.Equal(t, float64(3), entry["bestScore"])
	assert.Equal(t, float64(2), entry["plays"])
}

// TestE2E_ExportImport_MovesStateBetweenProfiles round-trips the export
// envelope from one profile into another through the database.
func TestE2E_ExportImport_MovesStateBetweenProfiles(t *testing.T) {
	ts := newTestServer(t)

	_, source := createProfile(t, ts)
	completeSession(t, ts, source, 3, 3)

	code := restRequest(t, ts, http.MethodPatch, "/api/v1/settings", source,
		map[string]any{"soundEnabled": false}, nil)
	require.Equal(t, http.StatusOK, code)

	var envelope map[string]any
	code = restRequest(t, ts, http.MethodGet, "/api/v1/export", source, nil, &envelope)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, envelope["progress"])
	require.NotNil(t, envelope["settings"])

	_, target := createProfile(t, ts)
	code = restRequest(t, ts, http.MethodPost, "/api/v1/import", target, envelope, nil)
	require.Equal(t, http.StatusOK, code)

	var settings map[string]any
	restRequest(t, ts, http.MethodGet, "/api/v1/settings", target, nil, &settings)
	assert.Equal(t, false, settings["soundEnabled"])

	var progress map[string]map[string]map[string]any
	restRequest(t, ts, http.MethodGet, "/api/v1/progress", target, nil, &progress)
	assert.Equal(t, true, progress["prek"]["ten-frame"]["completed"])
}

// TestE2E_LanguagePreference_Persists stores a language choice and reads it
// back through a rebuilt stack.
func TestE2E_LanguagePreference_Persists(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ts := setupTestServer(t, pool)

	_, token := createProfile(t, ts)

	code := restRequest(t, ts, http.MethodPut, "/api/v1/profile/language", token,
		map[string]any{"language": "es"}, nil)
	require.Equal(t, http.StatusOK, code)

	ts2 := setupTestServer(t, pool)
	var lang map[string]any
	code = restRequest(t, ts2, http.MethodGet, "/api/v1/profile/language", token, nil, &lang)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "es", lang["language"])
	assert.Equal(t, true, lang["stored"])
}

// TestE2E_StateEndpoints_RequireProfile verifies the per-profile API rejects
// anonymous and garbage-token requests.
func TestE2E_StateEndpoints_RequireProfile(t *testing.T) {
	ts := newTestServer(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/progress"},
		{http.MethodGet, "/api/v1/settings"},
		{http.MethodGet, "/api/v1/stats"},
		{http.MethodGet, "/api/v1/export"},
		{http.MethodGet, "/api/v1/profile/language"},
	}

	for _, ep := range endpoints {
		t.Run(ep.path, func(t *testing.T) {
			code := restRequest(t, ts, ep.method, ep.path, "", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, code, "anonymous")

			code = restRequest(t, ts, ep.method, ep.path, "not-a-token", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, code, "garbage token")
		})
	}
}

// TestE2E_AnonymousPlay_NotRecorded verifies a tokenless session completes
// normally but leaves no rows behind.
func TestE2E_AnonymousPlay_NotRecorded(t *testing.T) {
	ts := newTestServer(t)

	last := completeSession(t, ts, "", 3, 3)
	state := last["state"].(map[string]any)
	assert.Equal(t, "complete", state["phase"])

	// A fresh profile sees empty progress; anonymous play wrote nothing
	// under any profile key.
	_, token := createProfile(t, ts)
	var progress map[string]any
	code := restRequest(t, ts, http.MethodGet, "/api/v1/progress", token, nil, &progress)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, progress)
}
