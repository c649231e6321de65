package middleware

import (
	"net/http"
	"strings"

	"cwbridge/appctx"
	"cwbridge/core"
)

const RequestIDHeader = "X-Request-ID"

// maxInboundRequestIDLength caps ids supplied by callers so they stay readable in logs
const maxInboundRequestIDLength = 128

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" || len(requestID) > maxInboundRequestIDLength {
			requestID = core.NewID("req")
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := appctx.SetRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
