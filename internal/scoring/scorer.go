package scoring

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
)

var (
	// ErrNoCandidates is returned when Score is called with an empty
	// candidate list.
	ErrNoCandidates = errors.New("no candidate teams to score")

	// ErrInvalidTeam is returned when a team record is missing its
	// identifier. The caller must supply well-formed records.
	ErrInvalidTeam = errors.New("invalid team record")
)

// ScoreResult captures the complete scoring output for a single team
// against one bounty. All component values are percentages in [0,100];
// Total is their weighted sum rounded to one decimal place.
type ScoreResult struct {
	TeamID        string   `json:"team_id"`
	TeamName      string   `json:"team_name"`
	Total         float64  `json:"total"`
	SkillMatch    float64  `json:"skill_match"`
	Productivity  float64  `json:"productivity"`
	Availability  float64  `json:"availability"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	Slots         int      `json:"available_slots"`
	Reasoning     string   `json:"reasoning"`
}

// Scorer ranks candidate teams for a bounty using the weighted additive
// model. It holds no state between calls and is safe for concurrent use.
type Scorer struct {
	weights WeightSet
	logger  *slog.Logger
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights WeightSet, logger *slog.Logger) *Scorer {
	return &Scorer{weights: weights, logger: logger}
}

// Score computes fit scores for every candidate and returns them ranked
// best-first. The first element is the recommended assignment. Inputs
// are never mutated; an error means no result was produced.
func (s *Scorer) Score(bounty Bounty, candidates []Team) ([]ScoreResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	results := make([]ScoreResult, 0, len(candidates))
	for _, team := range candidates {
		if team.ID == "" {
			return nil, fmt.Errorf("%w: missing team id", ErrInvalidTeam)
		}

		skillMatch, matched := SkillMatchComponent(team, bounty.RequiredSkills)
		productivity := ProductivityComponent(team)
		availability := AvailabilityComponent(team)

		total := s.weights.SkillMatch*skillMatch +
			s.weights.Productivity*productivity +
			s.weights.Availability*availability

		results = append(results, ScoreResult{
			TeamID:        team.ID,
			TeamName:      team.Name,
			Total:         roundScore(total),
			SkillMatch:    skillMatch,
			Productivity:  productivity,
			Availability:  availability,
			MatchedSkills: matched,
			Slots:         AvailableSlots(team),
			Reasoning:     reasoning(team, matched, len(bounty.RequiredSkills)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.SkillMatch != b.SkillMatch {
			return a.SkillMatch > b.SkillMatch
		}
		if a.Slots != b.Slots {
			return a.Slots > b.Slots
		}
		return a.TeamID < b.TeamID
	})

	s.logger.Debug("scored candidates",
		"bounty_id", bounty.ID,
		"candidates", len(results),
		"top_team", results[0].TeamID,
		"top_score", results[0].Total,
	)
	return results, nil
}

// reasoning builds the human-readable justification for a candidate:
// matched skill count and names, productivity, and free slots.
func reasoning(team Team, matched []string, required int) string {
	names := "no skill overlap"
	if len(matched) > 0 {
		names = strings.Join(matched, ", ")
	}
	return fmt.Sprintf("%s selected based on: %d/%d required skills matched (%s), %.0f%% productivity rate, and %d available slots.",
		team.Name, len(matched), required, names, team.ProductivityRate*100, AvailableSlots(team))
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
