package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an ID and threads it through the
// context logger, so one submission action can be traced across the
// API, the audit trail and the worker logs. An inbound header is
// trusted as-is to keep IDs stable across reverse proxies.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
