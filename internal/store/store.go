package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BountyStatus string

const (
	StatusOpen      BountyStatus = "open"
	StatusAssigned  BountyStatus = "assigned"
	StatusCompleted BountyStatus = "completed"
	StatusCancelled BountyStatus = "cancelled"
)

// Team is the persisted squad record. ProductivityRate is expected in
// [0,1]; Workload and Capacity are validated at the API boundary before
// any record reaches the scorer.
type Team struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Skills           []string  `json:"skills"`
	JoinCode         string    `json:"join_code"`
	LeadID           string    `json:"lead_id,omitempty"`
	ProductivityRate float64   `json:"productivity_rate"`
	Workload         int       `json:"current_workload"`
	Capacity         int       `json:"max_capacity"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TeamFilter struct {
	Active *bool
	Skill  string
	Limit  int
	Offset int
}

type Bounty struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	RequiredSkills []string   `json:"required_skills"`
	Difficulty     string     `json:"difficulty,omitempty"`
	Reward         float64    `json:"reward,omitempty"`
	Owner          string     `json:"owner,omitempty"`

	Status         BountyStatus `json:"status"`
	AssignedTeamID *uuid.UUID   `json:"assigned_team_id,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type BountyFilter struct {
	Status     *BountyStatus
	Difficulty string
	Owner      string
	Limit      int
	Offset     int
}

// Assignment records one scoring decision: the chosen team, its fit
// score and reasoning, and the full ranked breakdown for later audit.
type Assignment struct {
	ID        uuid.UUID                `json:"id"`
	BountyID  uuid.UUID                `json:"bounty_id"`
	TeamID    uuid.UUID                `json:"team_id"`
	FitScore  float64                  `json:"fit_score"`
	Reasoning string                   `json:"reasoning"`
	AllScores []map[string]interface{} `json:"all_scores,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

type DashboardStats struct {
	TotalTeams        int     `json:"total_teams"`
	TotalBounties     int     `json:"total_bounties"`
	OpenBounties      int     `json:"open_bounties"`
	AssignedBounties  int     `json:"assigned_bounties"`
	AvgProductivity   float64 `json:"avg_team_productivity"`
	TotalCapacityUsed int     `json:"total_capacity_used"`
	TotalCapacity     int     `json:"total_capacity"`
}

type Store interface {
	CreateTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*Team, error)
	GetTeamByJoinCode(ctx context.Context, code string) (*Team, error)
	ListTeams(ctx context.Context, filter TeamFilter) ([]*Team, error)
	UpdateTeam(ctx context.Context, team *Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	IncrementTeamWorkload(ctx context.Context, id uuid.UUID, delta int) error
	ListJoinCodes(ctx context.Context) ([]string, error)

	CreateBounty(ctx context.Context, bounty *Bounty) error
	GetBounty(ctx context.Context, id uuid.UUID) (*Bounty, error)
	ListBounties(ctx context.Context, filter BountyFilter) ([]*Bounty, error)
	UpdateBounty(ctx context.Context, bounty *Bounty) error

	CreateAssignment(ctx context.Context, a *Assignment) error
	ListAssignmentsForBounty(ctx context.Context, bountyID uuid.UUID) ([]*Assignment, error)

	GetDashboardStats(ctx context.Context) (*DashboardStats, error)

	Close() error
}
