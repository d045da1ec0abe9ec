package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workboard-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the non-handler settings of the router
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	UploadsPath    string // local directory served under UploadsURL; empty disables it
	UploadsURL     string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	analyticsHandler AnalyticsHandler,
	submissionHandler SubmissionHandler,
	responsibilityHandler ResponsibilityHandler,
	participantHandler ParticipantHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	if opts.UploadsPath != "" {
		prefix := "/" + strings.Trim(opts.UploadsURL, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadsPath)))
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Get(prefix+"/*", fs.ServeHTTP)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/analytics", func(r chi.Router) {
				r.With(middleware.RequireStaff).Get("/me", analyticsHandler.GetMine)
				r.With(middleware.RequireManager).Get("/", analyticsHandler.Get)
				r.With(middleware.RequireManager).Get("/staff/{staffID}", analyticsHandler.GetStaff)
				r.Post("/compute", analyticsHandler.Compute)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Get("/", submissionHandler.List)
				r.With(middleware.RequirePermission(user.PermissionSubmissionCreate)).Post("/", submissionHandler.Create)
				r.Get("/{id}", submissionHandler.Get)
				r.With(middleware.RequirePermission(user.PermissionSubmissionVerify)).Post("/{id}/verify", submissionHandler.Verify)
			})

			r.Get("/responsibilities", responsibilityHandler.List)

			r.Route("/participants", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionParticipantManage))
				r.Get("/", participantHandler.List)
				r.Get("/{id}", participantHandler.Get)
				r.Post("/{id}/edits", participantHandler.StageEdit)
				r.Post("/edits/{token}/confirm", participantHandler.ConfirmEdit)
			})
		})
	})

	return r
}
