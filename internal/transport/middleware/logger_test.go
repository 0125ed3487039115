package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

func logRequest(t *testing.T, status int, decorate func(*http.Request) *http.Request) string {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodGet, "/some/path", nil)
	if decorate != nil {
		req = decorate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return buf.String()
}

func TestLoggerRecordsRequestLine(t *testing.T) {
	out := logRequest(t, http.StatusOK, nil)

	for _, want := range []string{"http.request", `"method":"GET"`, `"path":"/some/path"`, `"status":200`, "duration"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("2xx should log at INFO: %s", out)
	}
}

func TestLoggerElevatesServerErrors(t *testing.T) {
	out := logRequest(t, http.StatusInternalServerError, nil)

	if !strings.Contains(out, `"level":"ERROR"`) || !strings.Contains(out, `"status":500`) {
		t.Errorf("5xx should log at ERROR with status: %s", out)
	}
}

func TestLoggerClientErrorsStayInfo(t *testing.T) {
	out := logRequest(t, http.StatusNotFound, nil)

	if !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("4xx should log at INFO: %s", out)
	}
}

func TestLoggerIncludesContextIDs(t *testing.T) {
	profileID := uuid.New()
	out := logRequest(t, http.StatusOK, func(r *http.Request) *http.Request {
		ctx := ctxutil.WithRequestID(r.Context(), "req-42")
		ctx = ctxutil.WithProfileID(ctx, profileID)
		return r.WithContext(ctx)
	})

	if !strings.Contains(out, "req-42") {
		t.Errorf("log line missing request id: %s", out)
	}
	if !strings.Contains(out, profileID.String()) {
		t.Errorf("log line missing profile id: %s", out)
	}
}

func TestLoggerAnonymousOmitsProfile(t *testing.T) {
	out := logRequest(t, http.StatusOK, nil)

	if strings.Contains(out, "profile_id") {
		t.Errorf("anonymous request logged a profile_id: %s", out)
	}
}
