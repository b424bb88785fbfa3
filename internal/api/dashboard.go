package api

import (
	"net/http"
	"sort"

	"bountyai/internal/store"
)

type DashboardHandler struct {
	store store.Store
}

func NewDashboardHandler(s store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

type teamWorkload struct {
	TeamID      string  `json:"team_id"`
	Name        string  `json:"name"`
	Workload    int     `json:"current_workload"`
	Capacity    int     `json:"max_capacity"`
	Utilization float64 `json:"utilization"`
}

type topPerformer struct {
	TeamID           string  `json:"team_id"`
	Name             string  `json:"name"`
	ProductivityRate float64 `json:"productivity_rate"`
}

type dashboardResponse struct {
	Summary       *store.DashboardStats `json:"summary"`
	Workloads     []teamWorkload        `json:"team_workloads"`
	TopPerformers []topPerformer        `json:"top_performers"`
}

// Dashboard assembles the aggregate view: counts, per-team utilization,
// and the three most productive active teams.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetDashboardStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	active := true
	teams, err := h.store.ListTeams(r.Context(), store.TeamFilter{Active: &active})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	workloads := make([]teamWorkload, 0, len(teams))
	performers := make([]topPerformer, 0, len(teams))
	for _, t := range teams {
		util := 0.0
		if t.Capacity > 0 {
			util = float64(t.Workload) / float64(t.Capacity)
		}
		workloads = append(workloads, teamWorkload{
			TeamID:      t.ID.String(),
			Name:        t.Name,
			Workload:    t.Workload,
			Capacity:    t.Capacity,
			Utilization: util,
		})
		performers = append(performers, topPerformer{
			TeamID:           t.ID.String(),
			Name:             t.Name,
			ProductivityRate: t.ProductivityRate,
		})
	}

	sort.Slice(performers, func(i, j int) bool {
		if performers[i].ProductivityRate != performers[j].ProductivityRate {
			return performers[i].ProductivityRate > performers[j].ProductivityRate
		}
		return performers[i].TeamID < performers[j].TeamID
	})
	if len(performers) > 3 {
		performers = performers[:3]
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:       stats,
		Workloads:     workloads,
		TopPerformers: performers,
	})
}

// Stats is the admin-only raw counters endpoint.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetDashboardStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
