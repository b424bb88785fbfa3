package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const teamColumns = `id, name, description, skills, join_code, lead_id,
	productivity_rate, current_workload, max_capacity, active,
	created_at, updated_at`

func (s *PostgresStore) CreateTeam(ctx context.Context, team *Team) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO bounty_teams (name, description, skills, join_code, lead_id,
			productivity_rate, current_workload, max_capacity, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		team.Name, team.Description, team.Skills, team.JoinCode, team.LeadID,
		team.ProductivityRate, team.Workload, team.Capacity, team.Active,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (s *PostgresStore) GetTeam(ctx context.Context, id uuid.UUID) (*Team, error) {
	return s.getTeamWhere(ctx, "id = $1", id)
}

func (s *PostgresStore) GetTeamByJoinCode(ctx context.Context, code string) (*Team, error) {
	return s.getTeamWhere(ctx, "join_code = $1", code)
}

func (s *PostgresStore) getTeamWhere(ctx context.Context, where string, arg interface{}) (*Team, error) {
	t := &Team{}
	var description, leadID sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT `+teamColumns+`
		FROM bounty_teams WHERE `+where, arg,
	).Scan(
		&t.ID, &t.Name, &description, &t.Skills, &t.JoinCode, &leadID,
		&t.ProductivityRate, &t.Workload, &t.Capacity, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.LeadID = leadID.String
	return t, nil
}

func (s *PostgresStore) ListTeams(ctx context.Context, filter TeamFilter) ([]*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM bounty_teams WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Active != nil {
		n++
		query += fmt.Sprintf(" AND active = $%d", n)
		args = append(args, *filter.Active)
	}
	if filter.Skill != "" {
		n++
		query += fmt.Sprintf(" AND $%d = ANY(skills)", n)
		args = append(args, filter.Skill)
	}

	query += " ORDER BY created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		t := &Team{}
		var description, leadID sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Name, &description, &t.Skills, &t.JoinCode, &leadID,
			&t.ProductivityRate, &t.Workload, &t.Capacity, &t.Active,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Description = description.String
		t.LeadID = leadID.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) UpdateTeam(ctx context.Context, team *Team) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE bounty_teams SET
			name = $2, description = $3, skills = $4, join_code = $5, lead_id = $6,
			productivity_rate = $7, current_workload = $8, max_capacity = $9, active = $10,
			updated_at = now()
		WHERE id = $1`,
		team.ID, team.Name, team.Description, team.Skills, team.JoinCode, team.LeadID,
		team.ProductivityRate, team.Workload, team.Capacity, team.Active,
	)
	return err
}

func (s *PostgresStore) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM bounty_teams WHERE id = $1`, id)
	return err
}

// IncrementTeamWorkload bumps current_workload atomically, flooring at
// zero so a double-release can never drive it negative.
func (s *PostgresStore) IncrementTeamWorkload(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE bounty_teams SET
			current_workload = GREATEST(current_workload + $2, 0),
			updated_at = now()
		WHERE id = $1`, id, delta)
	return err
}

func (s *PostgresStore) ListJoinCodes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT join_code FROM bounty_teams`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

const bountyColumns = `id, title, description, required_skills, difficulty, reward, owner,
	status, assigned_team_id, created_at, assigned_at, updated_at`

func (s *PostgresStore) CreateBounty(ctx context.Context, bounty *Bounty) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO bounties (title, description, required_skills, difficulty, reward, owner, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		bounty.Title, bounty.Description, bounty.RequiredSkills,
		bounty.Difficulty, bounty.Reward, bounty.Owner, bounty.Status,
	).Scan(&bounty.ID, &bounty.CreatedAt, &bounty.UpdatedAt)
}

func (s *PostgresStore) GetBounty(ctx context.Context, id uuid.UUID) (*Bounty, error) {
	b := &Bounty{}
	var description, difficulty, owner sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT `+bountyColumns+`
		FROM bounties WHERE id = $1`, id,
	).Scan(
		&b.ID, &b.Title, &description, &b.RequiredSkills, &difficulty, &b.Reward, &owner,
		&b.Status, &b.AssignedTeamID, &b.CreatedAt, &b.AssignedAt, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	b.Difficulty = difficulty.String
	b.Owner = owner.String
	return b, nil
}

func (s *PostgresStore) ListBounties(ctx context.Context, filter BountyFilter) ([]*Bounty, error) {
	query := `SELECT ` + bountyColumns + ` FROM bounties WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.Difficulty != "" {
		n++
		query += fmt.Sprintf(" AND difficulty = $%d", n)
		args = append(args, filter.Difficulty)
	}
	if filter.Owner != "" {
		n++
		query += fmt.Sprintf(" AND owner = $%d", n)
		args = append(args, filter.Owner)
	}

	query += " ORDER BY created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bounties []*Bounty
	for rows.Next() {
		b := &Bounty{}
		var description, difficulty, owner sql.NullString
		if err := rows.Scan(
			&b.ID, &b.Title, &description, &b.RequiredSkills, &difficulty, &b.Reward, &owner,
			&b.Status, &b.AssignedTeamID, &b.CreatedAt, &b.AssignedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.Description = description.String
		b.Difficulty = difficulty.String
		b.Owner = owner.String
		bounties = append(bounties, b)
	}
	return bounties, rows.Err()
}

func (s *PostgresStore) UpdateBounty(ctx context.Context, bounty *Bounty) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE bounties SET
			title = $2, description = $3, required_skills = $4, difficulty = $5,
			reward = $6, owner = $7, status = $8, assigned_team_id = $9, assigned_at = $10,
			updated_at = now()
		WHERE id = $1`,
		bounty.ID, bounty.Title, bounty.Description, bounty.RequiredSkills, bounty.Difficulty,
		bounty.Reward, bounty.Owner, bounty.Status, bounty.AssignedTeamID, bounty.AssignedAt,
	)
	return err
}

func (s *PostgresStore) CreateAssignment(ctx context.Context, a *Assignment) error {
	scoresJSON, _ := json.Marshal(a.AllScores)
	return s.pool.QueryRow(ctx, `
		INSERT INTO bounty_assignments (bounty_id, team_id, fit_score, reasoning, all_scores)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		a.BountyID, a.TeamID, a.FitScore, a.Reasoning, scoresJSON,
	).Scan(&a.ID, &a.CreatedAt)
}

func (s *PostgresStore) ListAssignmentsForBounty(ctx context.Context, bountyID uuid.UUID) ([]*Assignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, bounty_id, team_id, fit_score, reasoning, all_scores, created_at
		FROM bounty_assignments WHERE bounty_id = $1
		ORDER BY created_at ASC`, bountyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*Assignment
	for rows.Next() {
		a := &Assignment{}
		var scoresJSON []byte
		if err := rows.Scan(&a.ID, &a.BountyID, &a.TeamID, &a.FitScore, &a.Reasoning, &scoresJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		if scoresJSON != nil {
			_ = json.Unmarshal(scoresJSON, &a.AllScores)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *PostgresStore) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bounty_teams WHERE active),
			(SELECT COUNT(*) FROM bounties),
			(SELECT COUNT(*) FROM bounties WHERE status = 'open'),
			(SELECT COUNT(*) FROM bounties WHERE status = 'assigned'),
			COALESCE((SELECT AVG(productivity_rate) FROM bounty_teams WHERE active), 0),
			COALESCE((SELECT SUM(current_workload) FROM bounty_teams WHERE active), 0),
			COALESCE((SELECT SUM(max_capacity) FROM bounty_teams WHERE active), 0)`,
	).Scan(
		&stats.TotalTeams, &stats.TotalBounties, &stats.OpenBounties, &stats.AssignedBounties,
		&stats.AvgProductivity, &stats.TotalCapacityUsed, &stats.TotalCapacity,
	)
	return stats, err
}
