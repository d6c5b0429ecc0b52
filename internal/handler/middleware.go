package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/ratelimit"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects clients that exceed their per-minute
// budget. Keyed by remote IP (RealIP middleware runs first).
func RateLimitMiddleware(limiter *ratelimit.PerClient, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// SplitHostPort keeps IPv6 peers distinct; RealIP may have
			// already replaced RemoteAddr with a bare header IP.
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				key = host
			}

			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					zap.String("client", key),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again shortly")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// JWTAuthMiddleware validates Bearer tokens signed with the shared
// HS256 secret.
func JWTAuthMiddleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "authentication token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			_, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
