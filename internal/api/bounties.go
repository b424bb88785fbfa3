package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bountyai/internal/assigner"
	"bountyai/internal/events"
	"bountyai/internal/scoring"
	"bountyai/internal/store"
)

type BountiesHandler struct {
	store    store.Store
	events   events.Client
	assigner *assigner.Assigner
}

func NewBountiesHandler(s store.Store, ev events.Client, a *assigner.Assigner) *BountiesHandler {
	return &BountiesHandler{store: s, events: ev, assigner: a}
}

type CreateBountyRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Reward         float64  `json:"reward,omitempty"`
	Owner          string   `json:"owner,omitempty"`
}

func (h *BountiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBountyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bounty title is required"})
		return
	}
	if req.Reward < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reward must be non-negative"})
		return
	}

	bounty := &store.Bounty{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Difficulty:     req.Difficulty,
		Reward:         req.Reward,
		Owner:          req.Owner,
		Status:         store.StatusOpen,
	}
	if err := h.store.CreateBounty(r.Context(), bounty); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectBountyCreated(bounty.ID.String()), bounty)
	}

	writeJSON(w, http.StatusCreated, bounty)
}

func (h *BountiesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.BountyFilter{
		Difficulty: r.URL.Query().Get("difficulty"),
		Owner:      r.URL.Query().Get("owner"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.BountyStatus(s)
		filter.Status = &status
	}

	bounties, err := h.store.ListBounties(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if bounties == nil {
		bounties = []*store.Bounty{}
	}
	writeJSON(w, http.StatusOK, bounties)
}

func (h *BountiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bounty id"})
		return
	}

	bounty, err := h.store.GetBounty(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if bounty == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "bounty not found"})
		return
	}
	writeJSON(w, http.StatusOK, bounty)
}

// Assign runs the scorer over all active teams and commits the winner.
func (h *BountiesHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bounty id"})
		return
	}

	result, err := h.assigner.Assign(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, assigner.ErrBountyNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "bounty not found"})
		case errors.Is(err, assigner.ErrBountyNotOpen):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, scoring.ErrNoCandidates):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no teams available to score"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *BountiesHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bounty id"})
		return
	}

	assignments, err := h.store.ListAssignmentsForBounty(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if assignments == nil {
		assignments = []*store.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}
