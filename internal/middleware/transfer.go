package middleware

import (
	"context"
	"net/http"
	"time"
)

// MediaTransfer bounds downloads served from /media/. A transfer may last at
// most total and is cut off once no bytes have been written for idle. The
// response is not buffered, so Range requests on large videos stream through.
func MediaTransfer(total time.Duration, idle time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), total)
			defer cancel()

			rc := http.NewResponseController(w)
			_ = rc.SetWriteDeadline(time.Now().Add(total))

			tw := &transferWriter{ResponseWriter: w, idle: idle}
			tw.stall = time.AfterFunc(idle, func() {
				// Fail the blocked write now instead of at the overall deadline.
				_ = rc.SetWriteDeadline(time.Now())
				cancel()
			})
			defer tw.stall.Stop()

			next.ServeHTTP(tw, r.WithContext(ctx))
		})
	}
}

// transferWriter re-arms the stall timer on every write.
type transferWriter struct {
	http.ResponseWriter
	idle  time.Duration
	stall *time.Timer
}

func (tw *transferWriter) Write(b []byte) (int, error) {
	tw.stall.Reset(tw.idle)
	return tw.ResponseWriter.Write(b)
}

func (tw *transferWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
