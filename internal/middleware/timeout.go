package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-vidtube/internal/model"
)

// Timeout bounds buffered API requests. A request that runs past it gets the
// regular 503 error envelope. A non-positive timeout disables the limit.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(model.NewErrorResponse(http.StatusServiceUnavailable, "request timed out"))

	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		limited := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Completed responses copy their own headers over this one.
			w.Header().Set("Content-Type", "application/json")
			limited.ServeHTTP(w, r)
		})
	}
}
