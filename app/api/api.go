// Package api is the HTTP surface over the round and leaderboard services.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/golf-bot/app/modules/course"
	leaderboardservice "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/application"
	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminOverrideHeader lets an organiser edit a submitted round.
const AdminOverrideHeader = "X-Admin-Override"

// Handlers serves the HTTP routes.
type Handlers struct {
	rounds      roundservice.Service
	leaderboard leaderboardservice.Service
	catalog     *course.Catalog
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// Options configures the router.
type Options struct {
	// AllowedOrigins is used for CORS and the websocket origin check. Empty
	// allows same-origin requests only.
	AllowedOrigins []string
	// Registry is served on /metrics when set.
	Registry *prometheus.Registry
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(
	rounds roundservice.Service,
	leaderboard leaderboardservice.Service,
	catalog *course.Catalog,
	logger *slog.Logger,
	allowedOrigins []string,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = course.DefaultCatalog()
	}
	return &Handlers{
		rounds:      rounds,
		leaderboard: leaderboard,
		catalog:     catalog,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

// NewRouter mounts every route on a chi router.
func NewRouter(h *Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", AdminOverrideHeader},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", h.HandleHealth)
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}
	r.Get("/courses/tees", h.HandleCourseTees)

	// The live feed is long-lived, so it sits outside the timeout group.
	r.Get("/rounds/{roundID}/leaderboard/live", h.HandleLiveLeaderboard)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))

		r.Route("/rounds", func(r chi.Router) {
			r.Post("/", h.HandleCreateRound)
			r.Get("/code/{code}", h.HandleLookupRound)
			r.Route("/{roundID}", func(r chi.Router) {
				r.Get("/", h.HandleGetRound)
				r.Post("/participants", h.HandleJoinRound)
				r.Get("/leaderboard", h.HandleGetLeaderboard)
				r.Get("/export", h.HandleExportRound)
			})
		})

		r.Route("/scorecards/{scorecardID}", func(r chi.Router) {
			r.Get("/", h.HandleGetScorecard)
			r.Delete("/", h.HandleDeletePermanently)
			r.Put("/holes/{hole}", h.HandleRecordHole)
			r.Post("/holes/{hole}/adjust", h.HandleAdjustHole)
			r.Put("/current-hole", h.HandleSetCurrentHole)
			r.Post("/submit", h.HandleSubmitRound)
			r.Post("/archive", h.HandleArchiveRound)
			r.Post("/restore", h.HandleRestoreRound)
		})

		r.Delete("/archive", h.HandleDeleteAllArchived)
		r.Post("/players/rename", h.HandleRenamePlayer)
		r.Get("/stats", h.HandleStats)
	})

	return r
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		// gorilla's default same-origin check
		return nil
	}
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := origins["*"]; ok {
			return true
		}
		_, ok := origins[origin]
		return ok
	}
}
