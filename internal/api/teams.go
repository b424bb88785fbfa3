package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bountyai/internal/events"
	"bountyai/internal/store"
)

type TeamsHandler struct {
	store  store.Store
	events events.Client
}

func NewTeamsHandler(s store.Store, ev events.Client) *TeamsHandler {
	return &TeamsHandler{store: s, events: ev}
}

// CreateTeamRequest accepts both historical spellings of the
// productivity field; normalization happens here so the rest of the
// system sees a single canonical schema.
type CreateTeamRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Skills            []string `json:"skills"`
	LeadID            string   `json:"lead_id,omitempty"`
	ProductivityRate  *float64 `json:"productivity_rate,omitempty"`
	ProductivityScore *float64 `json:"productivity_score,omitempty"`
	Workload          int      `json:"current_workload,omitempty"`
	Capacity          int      `json:"max_capacity,omitempty"`
}

func (r *CreateTeamRequest) productivity() float64 {
	if r.ProductivityRate != nil {
		return *r.ProductivityRate
	}
	if r.ProductivityScore != nil {
		return *r.ProductivityScore
	}
	return 0.75
}

func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "team name is required"})
		return
	}
	rate := req.productivity()
	if rate < 0 || rate > 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "productivity rate must be in [0,1]"})
		return
	}
	if req.Workload < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workload must be non-negative"})
		return
	}
	if req.Capacity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capacity must be non-negative"})
		return
	}
	if req.Capacity == 0 {
		req.Capacity = 5
	}

	codes, err := h.store.ListJoinCodes(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	taken := make(map[string]bool, len(codes))
	for _, c := range codes {
		taken[strings.ToUpper(c)] = true
	}
	joinCode, err := GenerateJoinCode(req.Name, taken)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	team := &store.Team{
		Name:             req.Name,
		Description:      req.Description,
		Skills:           req.Skills,
		JoinCode:         joinCode,
		LeadID:           req.LeadID,
		ProductivityRate: rate,
		Workload:         req.Workload,
		Capacity:         req.Capacity,
		Active:           true,
	}
	if err := h.store.CreateTeam(r.Context(), team); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectTeamCreated(team.ID.String()), team)
	}

	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.TeamFilter{
		Skill: r.URL.Query().Get("skill"),
	}
	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}

	teams, err := h.store.ListTeams(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if teams == nil {
		teams = []*store.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team id"})
		return
	}

	team, err := h.store.GetTeam(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// GetByJoinCode resolves a team from its join code, the lookup members
// use when joining a team.
func (h *TeamsHandler) GetByJoinCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	team, err := h.store.GetTeamByJoinCode(r.Context(), code)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no team with that join code"})
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team id"})
		return
	}

	team, err := h.store.GetTeam(r.Context(), id)
	if err != nil || team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if v, ok := patch["name"].(string); ok && strings.TrimSpace(v) != "" {
		team.Name = strings.TrimSpace(v)
	}
	if v, ok := patch["description"].(string); ok {
		team.Description = v
	}
	if v, ok := patch["skills"].([]interface{}); ok {
		var skills []string
		for _, s := range v {
			if str, ok := s.(string); ok {
				skills = append(skills, str)
			}
		}
		team.Skills = skills
	}
	// Both spellings accepted here too
	rate, hasRate := patch["productivity_rate"].(float64)
	if !hasRate {
		rate, hasRate = patch["productivity_score"].(float64)
	}
	if hasRate {
		if rate < 0 || rate > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "productivity rate must be in [0,1]"})
			return
		}
		team.ProductivityRate = rate
	}
	if v, ok := patch["current_workload"].(float64); ok {
		if v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workload must be non-negative"})
			return
		}
		team.Workload = int(v)
	}
	if v, ok := patch["max_capacity"].(float64); ok {
		if v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capacity must be non-negative"})
			return
		}
		team.Capacity = int(v)
	}
	if v, ok := patch["active"].(bool); ok {
		team.Active = v
	}

	if err := h.store.UpdateTeam(r.Context(), team); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team id"})
		return
	}

	if err := h.store.DeleteTeam(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
