package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bountyai/internal/assigner"
	"bountyai/internal/events"
	"bountyai/internal/store"
)

func NewRouter(s store.Store, ev events.Client, a *assigner.Assigner, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	teams := NewTeamsHandler(s, ev)
	bounties := NewBountiesHandler(s, ev, a)
	dashboard := NewDashboardHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/teams", teams.Create)
		r.Get("/teams", teams.List)
		r.Get("/teams/by-code/{code}", teams.GetByJoinCode)
		r.Get("/teams/{id}", teams.Get)
		r.Patch("/teams/{id}", teams.Update)
		r.Delete("/teams/{id}", teams.Delete)

		r.Post("/bounties", bounties.Create)
		r.Get("/bounties", bounties.List)
		r.Get("/bounties/{id}", bounties.Get)
		r.Post("/bounties/{id}/assign", bounties.Assign)
		r.Get("/bounties/{id}/assignments", bounties.Assignments)

		r.Get("/dashboard", dashboard.Dashboard)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", dashboard.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
