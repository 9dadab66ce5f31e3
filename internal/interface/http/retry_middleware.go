package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/book-rental/internal/infra/config"
)

// withRetry replays reads that fail with a server error. Writes, including
// PUT /rentals/:id/return, reach the handler exactly once.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	excluded := make(map[string]bool, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		excluded[path] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !replayable(r.Method) || excluded[r.URL.Path] {
			handler.ServeHTTP(w, r)
			return
		}
		var attempt bufferedResponse
		for n := 1; ; n++ {
			attempt = bufferedResponse{header: make(http.Header)}
			handler.ServeHTTP(&attempt, r)
			if attempt.status() < http.StatusInternalServerError || n == cfg.MaxAttempts {
				break
			}
			logger.Warn("transient failure, retrying request",
				"method", r.Method, "path", r.URL.Path, "status", attempt.status(), "attempt", n)
			if !wait(r, backoff(cfg.BaseBackoff, n)) {
				break
			}
		}
		attempt.flushTo(w)
	})
}

// replayable reports whether a request can be served twice without side effects.
func replayable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// backoff doubles base for every failed attempt after the first.
func backoff(base time.Duration, failed int) time.Duration {
	return base << (failed - 1)
}

// wait sleeps for d, returning false if the request is cancelled first.
func wait(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return r.Context().Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-r.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}

// bufferedResponse holds one attempt's response until it is chosen.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	code   int
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(code int) {
	if b.code == 0 {
		b.code = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.code == 0 {
		b.code = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) status() int {
	if b.code == 0 {
		return http.StatusOK
	}
	return b.code
}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = append([]string(nil), v...)
	}
	w.WriteHeader(b.status())
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
