package http

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

var errRateLimited = goerr.New("too many requests")

// bearerToken extracts the token of an "Authorization: Bearer" header
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// authMiddleware attaches the caller's session when a bearer token is given.
// Requests without a token continue anonymously; an invalid token is
// rejected.
func authMiddleware(authUC *usecase.AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := authUC.Authenticate(r.Context(), raw)
			if err != nil {
				handleError(r.Context(), w, err)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth rejects anonymous requests
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) == nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthorized, "no bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole rejects requests whose session has none of roles
func requireRole(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := auth.SessionFromContext(r.Context())
			if sess == nil {
				handleError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthorized, "no bearer token"))
				return
			}
			if !slices.Contains(roles, sess.Role) {
				handleError(r.Context(), w, goerr.Wrap(usecase.ErrForbidden, "role not allowed",
					goerr.V("role", sess.Role), goerr.V("path", r.URL.Path)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userLimiter keeps one token bucket per user. Buckets unused for idleTTL
// are dropped on the next sweep.
type userLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[types.UserID]*userBucket
	lastSweep time.Time
}

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 10 * time.Minute

func newUserLimiter(limit rate.Limit, burst int) *userLimiter {
	return &userLimiter{
		limit:   limit,
		burst:   burst,
		buckets: make(map[types.UserID]*userBucket),
	}
}

func (l *userLimiter) allow(id types.UserID, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[id]
	if !ok {
		b = &userBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[id] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *userLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFromContext(r.Context())
		if sess != nil && !l.allow(sess.UserID, time.Now()) {
			w.Header().Set("Retry-After", "60")
			handleError(r.Context(), w, goerr.Wrap(errRateLimited, "application rate limit exceeded",
				goerr.V(usecase.UserIDKey, sess.UserID)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
