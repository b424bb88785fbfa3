package assigner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"bountyai/internal/config"
	"bountyai/internal/events"
	"bountyai/internal/scoring"
	"bountyai/internal/store"
)

var (
	ErrBountyNotFound = errors.New("bounty not found")
	ErrBountyNotOpen  = errors.New("bounty is not open for assignment")
)

// Result is the outcome of one assignment: the chosen team's score plus
// the full ranking that produced it.
type Result struct {
	Bounty    *store.Bounty         `json:"bounty"`
	Team      *store.Team           `json:"assigned_team"`
	FitScore  float64               `json:"fit_score"`
	Reasoning string                `json:"reasoning"`
	AllScores []scoring.ScoreResult `json:"all_scores"`
}

// Assigner is the request-handling collaborator around the scorer: it
// fetches candidate records, normalizes them, scores, and persists the
// winning assignment.
type Assigner struct {
	store  store.Store
	events events.Client
	scorer *scoring.Scorer
	cfg    *config.Config
	logger *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, cfg *config.Config, logger *slog.Logger) *Assigner {
	weights := scoring.WeightSet{
		SkillMatch:   cfg.Scoring.Weights.SkillMatch,
		Productivity: cfg.Scoring.Weights.Productivity,
		Availability: cfg.Scoring.Weights.Availability,
	}
	return &Assigner{
		store:  s,
		events: ev,
		scorer: scoring.NewScorer(weights, logger),
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

func (a *Assigner) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.statsLoop(ctx)
}

func (a *Assigner) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()
}

// Assign scores all active teams for the bounty, persists the winner,
// and returns the ranked results.
func (a *Assigner) Assign(ctx context.Context, bountyID uuid.UUID) (*Result, error) {
	bounty, err := a.store.GetBounty(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("get bounty: %w", err)
	}
	if bounty == nil {
		return nil, ErrBountyNotFound
	}
	if bounty.Status != store.StatusOpen {
		return nil, fmt.Errorf("%w: status %s", ErrBountyNotOpen, bounty.Status)
	}

	active := true
	teams, err := a.store.ListTeams(ctx, store.TeamFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	candidates := make([]scoring.Team, 0, len(teams))
	byID := make(map[string]*store.Team, len(teams))
	for _, t := range teams {
		candidates = append(candidates, normalize(t))
		byID[t.ID.String()] = t
	}

	results, err := a.scorer.Score(toBountyDescriptor(bounty), candidates)
	if err != nil {
		if errors.Is(err, scoring.ErrNoCandidates) && a.events != nil {
			_ = a.events.Publish(events.SubjectBountyUnmatched(bounty.ID.String()), map[string]interface{}{
				"bounty_id":       bounty.ID.String(),
				"required_skills": bounty.RequiredSkills,
			})
		}
		return nil, err
	}

	winner := results[0]
	winnerTeam := byID[winner.TeamID]

	now := time.Now()
	bounty.Status = store.StatusAssigned
	bounty.AssignedTeamID = &winnerTeam.ID
	bounty.AssignedAt = &now
	if err := a.store.UpdateBounty(ctx, bounty); err != nil {
		return nil, fmt.Errorf("update bounty: %w", err)
	}

	if err := a.store.CreateAssignment(ctx, &store.Assignment{
		BountyID:  bounty.ID,
		TeamID:    winnerTeam.ID,
		FitScore:  winner.Total,
		Reasoning: winner.Reasoning,
		AllScores: scoreBreakdown(results),
	}); err != nil {
		return nil, fmt.Errorf("record assignment: %w", err)
	}

	if err := a.store.IncrementTeamWorkload(ctx, winnerTeam.ID, 1); err != nil {
		a.logger.Warn("failed to bump team workload", "team_id", winnerTeam.ID, "error", err)
	}

	if a.events != nil {
		_ = a.events.Publish(events.SubjectBountyAssigned(bounty.ID.String()), events.BountyAssignedEvent{
			BountyID:  bounty.ID.String(),
			TeamID:    winner.TeamID,
			TeamName:  winner.TeamName,
			FitScore:  winner.Total,
			Reasoning: winner.Reasoning,
		})
	}

	a.logger.Info("bounty assigned",
		"bounty_id", bounty.ID,
		"team", winner.TeamName,
		"score", winner.Total,
	)

	return &Result{
		Bounty:    bounty,
		Team:      winnerTeam,
		FitScore:  winner.Total,
		Reasoning: winner.Reasoning,
		AllScores: results,
	}, nil
}

// SetupSubscriptions registers NATS subscriptions so bounties can be
// filed over the bus without the HTTP surface.
func (a *Assigner) SetupSubscriptions() {
	if a.events == nil {
		return
	}

	_ = a.events.Subscribe(events.SubjectBountyRequest, func(_ string, data []byte) {
		var req events.BountyRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			a.logger.Warn("invalid bounty request event", "error", err)
			return
		}
		if req.Title == "" {
			a.logger.Warn("bounty request missing title, dropped")
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
		if err := a.store.CreateBounty(context.Background(), bounty); err != nil {
			a.logger.Error("failed to create bounty from bus request", "error", err)
			return
		}
		_ = a.events.Publish(events.SubjectBountyCreated(bounty.ID.String()), bounty)
		a.logger.Info("bounty created from bus request", "bounty_id", bounty.ID, "skills", bounty.RequiredSkills)
	})
}

func (a *Assigner) statsLoop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.cfg.StatsInterval())
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.publishStats(ctx)
		}
	}
}

func (a *Assigner) publishStats(ctx context.Context) {
	if a.events == nil {
		return
	}
	stats, err := a.store.GetDashboardStats(ctx)
	if err != nil {
		a.logger.Error("failed to get stats", "error", err)
		return
	}
	_ = a.events.Publish(events.SubjectBountyStats, events.StatsEvent{
		Teams:            stats.TotalTeams,
		OpenBounties:     stats.OpenBounties,
		AssignedBounties: stats.AssignedBounties,
		AvgProductivity:  stats.AvgProductivity,
		Timestamp:        time.Now(),
	})
}

// normalize maps a persisted team record onto the scorer's canonical
// schema. Records reaching here have already passed boundary validation.
func normalize(t *store.Team) scoring.Team {
	return scoring.Team{
		ID:               t.ID.String(),
		Name:             t.Name,
		Skills:           t.Skills,
		ProductivityRate: t.ProductivityRate,
		Workload:         t.Workload,
		Capacity:         t.Capacity,
	}
}

func toBountyDescriptor(b *store.Bounty) scoring.Bounty {
	return scoring.Bounty{
		ID:             b.ID.String(),
		RequiredSkills: b.RequiredSkills,
		Difficulty:     b.Difficulty,
	}
}

// scoreBreakdown flattens ranked results into the JSONB audit shape
// stored alongside each assignment.
func scoreBreakdown(results []scoring.ScoreResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]interface{}{
			"team_id":        r.TeamID,
			"team_name":      r.TeamName,
			"score":          r.Total,
			"skill_match":    r.SkillMatch,
			"productivity":   r.Productivity,
			"workload_score": r.Availability,
		})
	}
	return out
}
