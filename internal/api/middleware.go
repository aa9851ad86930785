package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/momentum/internal/api/respond"
	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/logger"
)

// TokenVerifier resolves a bearer token to its subject
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate attaches the bearer token's subject to the request context.
// Requests without an Authorization header pass through anonymously; a
// header that does not verify is rejected with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.WriteError(w, http.StatusUnauthorized, "expected a bearer token")
				return
			}
			subject, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				respond.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), subject)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogRequests logs one line per request
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
