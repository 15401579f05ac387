// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured line per request with method, path,
// caller and latency. The response writer is passed through untouched so the
// mix watch endpoint can still hijack the connection for its upgrade.
func RequestLogger(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start),
			}).Info("http request")
		})
	}
}

// WatcherAttached records a client opening a mix change feed.
func WatcherAttached(logger *logrus.Logger, remote, path string) {
	logger.WithFields(logrus.Fields{
		"remote": remote,
		"path":   path,
	}).Info("watcher attached")
}

// WatcherDetached records the feed closing, with the terminating error when
// the close was not clean.
func WatcherDetached(logger *logrus.Logger, remote, path string, err error) {
	fields := logrus.Fields{
		"remote": remote,
		"path":   path,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("watcher detached")
}
