package middleware

import (
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

// requestIDHeader carries an externally assigned request ID. When absent
// a fresh UUID is generated.
const requestIDHeader = "X-Request-Id"

// RequestID assigns each request an ID, stores it in the context and
// echoes it back in the response header. The client's remote address is
// stored alongside it for the activity trail.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(r.Context(), id)
		ctx = ctxutil.WithOriginIP(ctx, remoteIP(r))

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// remoteIP strips the port from RemoteAddr. A reverse proxy header is
// deliberately not consulted here; the proxy is expected to rewrite
// RemoteAddr or run trusted.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
