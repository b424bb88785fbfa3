package scoring

import "strings"

// Bounty is the task descriptor consumed by the scorer. Difficulty is
// informational only and plays no part in scoring.
type Bounty struct {
	ID             string
	RequiredSkills []string
	Difficulty     string
}

// Team is a candidate for assignment. Records reaching the scorer are
// assumed canonical: the data boundary owns field normalization and
// numeric validation (a productivity rate outside [0,1] is passed
// through unclamped).
type Team struct {
	ID               string
	Name             string
	Skills           []string
	ProductivityRate float64
	Workload         int
	Capacity         int
}

// --- Individual component calculators ---
// Each returns a percentage in [0,100] for well-formed input.

// SkillMatchComponent returns the percentage of required skills the team
// possesses, plus the matched skill names in required-skill order.
// Matching is case-insensitive and tag-for-tag exact. An empty
// requirement set matches every team at 100.
func SkillMatchComponent(team Team, requiredSkills []string) (float64, []string) {
	if len(requiredSkills) == 0 {
		return 100, nil
	}
	var matched []string
	for _, req := range requiredSkills {
		for _, skill := range team.Skills {
			if strings.EqualFold(skill, req) {
				matched = append(matched, req)
				break
			}
		}
	}
	return 100 * float64(len(matched)) / float64(len(requiredSkills)), matched
}

// ProductivityComponent expresses the team's productivity rate as a
// percentage. Out-of-range rates are a data-quality concern for the
// collaborator supplying team records, not sanitized here.
func ProductivityComponent(team Team) float64 {
	return team.ProductivityRate * 100
}

// AvailabilityComponent returns the percentage of capacity currently
// unused. Workload at or beyond capacity clamps to zero availability,
// never negative, and zero capacity means fully unavailable.
func AvailabilityComponent(team Team) float64 {
	if team.Capacity <= 0 {
		return 0
	}
	return 100 * float64(AvailableSlots(team)) / float64(team.Capacity)
}

// AvailableSlots returns the team's unused capacity, floored at zero.
func AvailableSlots(team Team) int {
	slots := team.Capacity - team.Workload
	if slots < 0 {
		return 0
	}
	return slots
}
