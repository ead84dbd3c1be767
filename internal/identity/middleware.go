package identity

import (
	"net/http"
	"strings"
)

// Skipper allows callers to bypass identity resolution for specific requests.
type Skipper func(r *http.Request) bool

// Middleware resolves the acting user before the request reaches a handler.
type Middleware struct {
	Config  Config
	Skipper Skipper
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(cfg Config, skipper Skipper) Middleware {
	return Middleware{Config: cfg, Skipper: skipper}
}

// Wrap wraps an http.Handler with identity resolution. Requests without an
// Authorization header run as the demo user; a present but invalid token is
// rejected rather than silently downgraded.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.resolveRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) resolveRequest(r *http.Request) (*User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return &User{ID: m.Config.DemoUserID, Demo: true}, nil
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, ErrInvalidToken
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return ParseToken(token, m.Config)
}
