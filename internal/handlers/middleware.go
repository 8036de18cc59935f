package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"wordscapes/internal/models"
	"wordscapes/internal/security"
	"wordscapes/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: security.NewRateLimiter(10, time.Minute),
		csrf:        csrf,
	}
}

// RequireAuth rejects requests without a valid session. Unauthenticated
// calls get an explicit failure response, no partial processing.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondFailure(w, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			// Clear invalid cookie
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondFailure(w, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects state-changing requests whose X-CSRF-Token header
// does not match the token derived from the session. Runs inside
// RequireAuth, so a session cookie is present.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondFailure(w, http.StatusForbidden, MsgInvalidCSRF)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" || !m.csrf.ValidateToken(cookie.Value, token) {
			respondFailure(w, http.StatusForbidden, MsgInvalidCSRF)
			return
		}

		next(w, r)
	}
}

// RateLimit throttles requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !m.rateLimiter.Allow(ip) {
			respondFailure(w, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}

		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
