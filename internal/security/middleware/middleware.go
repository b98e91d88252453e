package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/observability/metrics"
	"github.com/yourorg/nestboxd/internal/security/ratelimit"
	"github.com/yourorg/nestboxd/internal/service"
)

type SessionContextKey struct{}

const authScheme = "Basic "

// ExtractToken pulls the opaque session token out of the Authorization
// header. The "Basic " prefix is stripped when present; otherwise the
// raw header value is the token. A missing or empty header yields the
// sentinel, which the validator maps to the invalid session.
func ExtractToken(header string) string {
	token := strings.TrimSpace(strings.TrimPrefix(header, authScheme))
	if token == "" {
		return domain.NotAvailable
	}
	return token
}

// SessionMiddleware resolves the Authorization header to a session object
// on every request. It never rejects: anonymous and invalid tokens simply
// carry the invalid session, and each handler decides what that means.
func SessionMiddleware(auth *service.AuthService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isInfraPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := ExtractToken(r.Header.Get("Authorization"))
			session := auth.ValidateSession(r.Context(), token)
			ctx := context.WithValue(r.Context(), SessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware applies the per-mandant sliding window. Requests
// without a valid session are not keyed and pass through.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isInfraPath(r.URL.Path) || r.URL.Path == "/login" {
				next.ServeHTTP(w, r)
				return
			}

			mandantUUID := ""
			if session := SessionFromContext(r.Context()); session.Valid() {
				mandantUUID = session.MandantUUID()
			}

			if !limiter.Allow(mandantUUID) {
				metrics.ObserveRateLimited()
				log.Warn("rate limit exceeded", slog.String("mandant_uuid", mandantUUID))
				http.Error(w, `{"error":1,"error_message":"TOO_MANY_REQUESTS"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext returns the session resolved by SessionMiddleware,
// or the invalid sentinel when none was stored.
func SessionFromContext(ctx context.Context) domain.SessionObject {
	if s, ok := ctx.Value(SessionContextKey{}).(domain.SessionObject); ok {
		return s
	}
	return domain.InvalidSession()
}

func isInfraPath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}
