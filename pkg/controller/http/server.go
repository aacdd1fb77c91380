package http

import (
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Default limit for application submissions per user
const (
	DefaultApplyRate  = rate.Limit(1.0 / 6)
	DefaultApplyBurst = 5
)

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	applyLimit *userLimiter
	files      *storage.Memory
	filesPath  string
}

type Options func(*Server)

// WithApplyRateLimit overrides the per-user limit on application submissions
func WithApplyRateLimit(limit rate.Limit, burst int) Options {
	return func(s *Server) {
		s.applyLimit = newUserLimiter(limit, burst)
	}
}

// WithMemoryFiles serves objects of an in-process store under prefix, so that
// URLs returned by uploads resolve in development.
func WithMemoryFiles(store *storage.Memory, prefix string) Options {
	return func(s *Server) {
		s.files = store
		s.filesPath = "/" + strings.Trim(prefix, "/")
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		uc:         uc,
		applyLimit: newUserLimiter(DefaultApplyRate, DefaultApplyBurst),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.With(requireAuth).Get("/me", meHandler(uc))
		r.With(requireAuth).Post("/rpc/verify_admin", verifyAdminHandler(uc))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", listCategoriesHandler(uc))
			r.With(requireRole(types.RoleAdmin)).Post("/", createCategoryHandler(uc))

			r.Route("/{categoryID}", func(r chi.Router) {
				r.Get("/", getCategoryHandler(uc))
				r.With(requireRole(types.RoleAdmin)).Put("/", updateCategoryHandler(uc))
				r.With(requireRole(types.RoleAdmin)).Delete("/", deleteCategoryHandler(uc))

				r.Get("/fields", listFieldsHandler(uc))
				r.With(requireRole(types.RoleAdmin)).Post("/fields", createFieldHandler(uc))
				r.With(requireRole(types.RoleAdmin)).Put("/fields/order", reorderFieldsHandler(uc))
				r.With(requireRole(types.RoleAdmin)).Delete("/fields/{fieldID}", deleteFieldHandler(uc))

				r.Get("/form", formHandler(uc))

				r.With(requireAuth).Get("/response", getResponseHandler(uc))
				r.With(requireAuth).Put("/response", submitResponseHandler(uc))
			})
		})

		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/", listOpportunitiesHandler(uc))
			r.With(requireRole(types.RoleCompany, types.RoleAdmin)).Post("/", createOpportunityHandler(uc))

			r.Route("/{opportunityID}", func(r chi.Router) {
				r.Get("/", getOpportunityHandler(uc))
				r.With(requireAuth).Put("/", updateOpportunityHandler(uc))
				r.With(requireAuth).Delete("/", deleteOpportunityHandler(uc))

				r.With(requireAuth).Get("/applications", listOpportunityApplicationsHandler(uc))
				r.With(requireAuth, s.applyLimit.middleware).Post("/applications", applyHandler(uc))
			})
		})

		r.With(requireAuth).Get("/applications", listMyApplicationsHandler(uc))
		r.With(requireAuth).Patch("/applications/{applicationID}", updateApplicationStatusHandler(uc))

		r.With(requireAuth).Post("/uploads", uploadHandler(uc))
	})

	if s.files != nil {
		r.Get(s.filesPath+"/*", memoryFileHandler(s.files, s.filesPath))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// memoryFileHandler serves objects previously stored in a Memory store,
// always as attachments with content sniffing disabled
func memoryFileHandler(store *storage.Memory, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")
		contentType, data, err := store.Get(key)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)})
		if disposition == "" {
			disposition = "attachment"
		}
		w.Header().Set("Content-Disposition", disposition)
		w.Write(data) //nolint:errcheck // header already committed
	}
}
