package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-draft-companion/internal/catalog"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
	"github.com/DoyleJ11/lol-draft-companion/internal/store"
	"github.com/DoyleJ11/lol-draft-companion/internal/ws"
)

// Deps are the collaborators the routes are built from. Store may be nil,
// which disables the saved-draft routes.
type Deps struct {
	Hub       *hub.Hub
	Store     store.Store
	Catalog   *catalog.Catalog
	Metrics   metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
	WSOrigins []string
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", metrics.NewMetricsHandler(gatherers(d.Gatherer)...))
	r.Get("/ws", ws.Handler(d.Hub, ws.Options{
		OriginPatterns: d.WSOrigins,
		Catalog:        d.Catalog,
		Logger:         d.Logger,
	}))

	r.Get("/flows", GetFlow)
	r.Get("/champions", ListChampions(d.Hub, d.Catalog))

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", CreateLobby(d.Hub))
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", GetLobby(d.Hub))
			r.Delete("/", DeleteLobby(d.Hub))
			r.Post("/commands", PostCommand(d.Hub, d.Catalog))
			r.Get("/share", ShareLobby(d.Hub))
			if d.Store != nil {
				r.Post("/save", SaveLobby(d.Hub, d.Store, d.Metrics))
			}
		})
	})

	if d.Store != nil {
		r.Route("/saved", func(r chi.Router) {
			r.Get("/", ListSaved(d.Store))
			r.Get("/{id}", GetSaved(d.Store))
			r.Delete("/{id}", DeleteSaved(d.Store))
		})
	}
	return r
}

func gatherers(g prometheus.Gatherer) []prometheus.Gatherer {
	if g == nil {
		return nil
	}
	return []prometheus.Gatherer{g}
}
