package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

// RequestIDHeader carries the request id on both request and response.
const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an id. A valid UUID in the incoming
// header is reused so ids can follow a request across hops; anything else
// gets a fresh one. The id is stored in the context and echoed on the
// response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}
