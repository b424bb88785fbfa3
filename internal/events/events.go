package events

import "time"

// BountyRequestEvent files a new bounty over the bus, bypassing the
// HTTP surface.
type BountyRequestEvent struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Reward         float64  `json:"reward,omitempty"`
	Owner          string   `json:"owner,omitempty"`
}

type BountyAssignedEvent struct {
	BountyID  string  `json:"bounty_id"`
	TeamID    string  `json:"team_id"`
	TeamName  string  `json:"team_name"`
	FitScore  float64 `json:"fit_score"`
	Reasoning string  `json:"reasoning"`
}

type StatsEvent struct {
	Teams            int       `json:"teams"`
	OpenBounties     int       `json:"open_bounties"`
	AssignedBounties int       `json:"assigned_bounties"`
	AvgProductivity  float64   `json:"avg_team_productivity"`
	Timestamp        time.Time `json:"timestamp"`
}
