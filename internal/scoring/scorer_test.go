package scoring

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	if err := w.Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		t.Errorf("default weights sum to %f, expected 1.0", w.Sum())
	}
}

func TestWeightsValidate(t *testing.T) {
	bad := WeightSet{SkillMatch: 0.5, Productivity: 0.3, Availability: 0.3}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for weights summing to 1.1")
	}
	negative := WeightSet{SkillMatch: 1.2, Productivity: -0.1, Availability: -0.1}
	if err := negative.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestSkillMatchComponent(t *testing.T) {
	tests := []struct {
		name     string
		team     []string
		required []string
		want     float64
		matched  []string
	}{
		{"full match", []string{"frontend", "react", "ui/ux"}, []string{"frontend", "react", "ui/ux"}, 100, []string{"frontend", "react", "ui/ux"}},
		{"no overlap", []string{"backend", "python"}, []string{"frontend", "react", "ui/ux"}, 0, nil},
		{"partial", []string{"frontend", "python"}, []string{"frontend", "react"}, 50, []string{"frontend"}},
		{"case insensitive", []string{"Frontend", "REACT"}, []string{"frontend", "react"}, 100, []string{"frontend", "react"}},
		{"no requirements", []string{"backend"}, nil, 100, nil},
		{"exact tags only", []string{"reactjs"}, []string{"react"}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := SkillMatchComponent(Team{Skills: tt.team}, tt.required)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
			if !reflect.DeepEqual(matched, tt.matched) {
				t.Errorf("matched %v, want %v", matched, tt.matched)
			}
		})
	}
}

func TestAvailabilityComponent(t *testing.T) {
	tests := []struct {
		name     string
		workload int
		capacity int
		want     float64
	}{
		{"fully free", 0, 5, 100},
		{"partially loaded", 2, 5, 60},
		{"at capacity", 5, 5, 0},
		{"over capacity clamps to zero", 7, 5, 0},
		{"zero capacity no division error", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailabilityComponent(Team{Workload: tt.workload, Capacity: tt.capacity})
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestProductivityComponentUnclamped(t *testing.T) {
	if got := ProductivityComponent(Team{ProductivityRate: 0.85}); math.Abs(got-85) > 0.001 {
		t.Errorf("got %f, want 85", got)
	}
	// Out-of-range input passes through untouched; validation belongs
	// to the data boundary.
	if got := ProductivityComponent(Team{ProductivityRate: 1.2}); math.Abs(got-120) > 0.001 {
		t.Errorf("got %f, want 120", got)
	}
}

func TestScoreWorkedExample(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1", RequiredSkills: []string{"frontend", "react", "ui/ux"}}
	teams := []Team{{
		ID: "team-a", Name: "Team A",
		Skills:           []string{"frontend", "react", "ui/ux"},
		ProductivityRate: 0.85,
		Workload:         2,
		Capacity:         5,
	}}

	results, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	r := results[0]
	// 0.5*100 + 0.3*85 + 0.2*60 = 87.5
	if r.Total != 87.5 {
		t.Errorf("expected total 87.5, got %f", r.Total)
	}
	if r.SkillMatch != 100 {
		t.Errorf("expected skill match 100, got %f", r.SkillMatch)
	}
	if r.Availability != 60 {
		t.Errorf("expected availability 60, got %f", r.Availability)
	}
	if r.Slots != 3 {
		t.Errorf("expected 3 slots, got %d", r.Slots)
	}
	want := "Team A selected based on: 3/3 required skills matched (frontend, react, ui/ux), 85% productivity rate, and 3 available slots."
	if r.Reasoning != want {
		t.Errorf("reasoning mismatch:\n got %q\nwant %q", r.Reasoning, want)
	}
}

func TestScoreWeightConservation(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1", RequiredSkills: []string{"go", "sql"}}
	teams := []Team{
		{ID: "t1", Name: "One", Skills: []string{"go"}, ProductivityRate: 0.7, Workload: 1, Capacity: 4},
		{ID: "t2", Name: "Two", Skills: []string{"go", "sql"}, ProductivityRate: 0.4, Workload: 3, Capacity: 3},
		{ID: "t3", Name: "Three", Skills: nil, ProductivityRate: 0.95, Workload: 0, Capacity: 2},
	}

	results, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for _, r := range results {
		expected := 0.5*r.SkillMatch + 0.3*r.Productivity + 0.2*r.Availability
		if math.Abs(r.Total-expected) > 0.05 {
			t.Errorf("team %s: total %f, components give %f", r.TeamID, r.Total, expected)
		}
		if r.Total < 0 || r.Total > 100 {
			t.Errorf("team %s: total %f out of [0,100]", r.TeamID, r.Total)
		}
	}
}

func TestScoreNoOverlapRanksBelowPartial(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1", RequiredSkills: []string{"frontend", "react", "ui/ux"}}
	teams := []Team{
		{ID: "b", Name: "Team B", Skills: []string{"backend", "python"}, ProductivityRate: 0.8, Workload: 1, Capacity: 5},
		{ID: "a", Name: "Team A", Skills: []string{"frontend"}, ProductivityRate: 0.8, Workload: 1, Capacity: 5},
	}

	results, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if results[0].TeamID != "a" {
		t.Errorf("expected partial-overlap team first, got %s", results[0].TeamID)
	}
	if results[1].SkillMatch != 0 {
		t.Errorf("expected 0 skill match for no overlap, got %f", results[1].SkillMatch)
	}
}

func TestScoreEmptyRequirements(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1"}
	teams := []Team{
		{ID: "t1", Name: "One", Skills: []string{"anything"}, ProductivityRate: 0.5, Workload: 0, Capacity: 2},
		{ID: "t2", Name: "Two", Skills: nil, ProductivityRate: 0.5, Workload: 0, Capacity: 2},
	}

	results, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for _, r := range results {
		if r.SkillMatch != 100 {
			t.Errorf("team %s: expected 100 skill match with no requirements, got %f", r.TeamID, r.SkillMatch)
		}
	}
}

func TestScoreTieBreaks(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())

	t.Run("higher skill match wins tie", func(t *testing.T) {
		// Both total 50.0: X = 0.5*80+0.3*0+0.2*50, Y = 0.5*60+0.3*50+0.2*25.
		bounty := Bounty{ID: "b1", RequiredSkills: []string{"a", "b", "c", "d", "e"}}
		teams := []Team{
			{ID: "y", Name: "Y", Skills: []string{"a", "b", "c"}, ProductivityRate: 0.5, Workload: 3, Capacity: 4},
			{ID: "x", Name: "X", Skills: []string{"a", "b", "c", "d"}, ProductivityRate: 0, Workload: 1, Capacity: 2},
		}
		results, err := s.Score(bounty, teams)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if results[0].Total != results[1].Total {
			t.Fatalf("test fixture broken: totals %f vs %f differ", results[0].Total, results[1].Total)
		}
		if results[0].TeamID != "x" {
			t.Errorf("expected x (skill match 80) first, got %s", results[0].TeamID)
		}
	})

	t.Run("lexicographic id as final tie break", func(t *testing.T) {
		bounty := Bounty{ID: "b1", RequiredSkills: []string{"go"}}
		clone := Team{Name: "Clone", Skills: []string{"go"}, ProductivityRate: 0.5, Workload: 1, Capacity: 3}
		t1, t2 := clone, clone
		t1.ID = "beta"
		t2.ID = "alpha"
		results, err := s.Score(bounty, []Team{t1, t2})
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if results[0].TeamID != "alpha" {
			t.Errorf("expected alpha first, got %s", results[0].TeamID)
		}
	})
}

func TestScoreDeterminism(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1", RequiredSkills: []string{"go", "sql", "k8s"}}
	teams := []Team{
		{ID: "t3", Name: "Three", Skills: []string{"go", "sql"}, ProductivityRate: 0.6, Workload: 2, Capacity: 4},
		{ID: "t1", Name: "One", Skills: []string{"go", "sql"}, ProductivityRate: 0.6, Workload: 2, Capacity: 4},
		{ID: "t2", Name: "Two", Skills: []string{"k8s"}, ProductivityRate: 0.9, Workload: 0, Capacity: 5},
	}

	first, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	second, err := s.Score(bounty, teams)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different rankings")
	}
}

func TestScoreProductivityMonotonicity(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	bounty := Bounty{ID: "b1", RequiredSkills: []string{"go"}}
	subject := Team{ID: "subject", Name: "Subject", Skills: []string{"go"}, ProductivityRate: 0.4, Workload: 1, Capacity: 3}
	rival := Team{ID: "rival", Name: "Rival", Skills: []string{"go"}, ProductivityRate: 0.6, Workload: 1, Capacity: 3}

	rankOf := func(results []ScoreResult, id string) int {
		for i, r := range results {
			if r.TeamID == id {
				return i
			}
		}
		t.Fatalf("team %s missing from results", id)
		return -1
	}

	before, err := s.Score(bounty, []Team{subject, rival})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	subject.ProductivityRate = 0.9
	after, err := s.Score(bounty, []Team{subject, rival})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if rankOf(after, "subject") > rankOf(before, "subject") {
		t.Error("raising productivity lowered the team's rank")
	}
}

func TestScoreInputsNotMutated(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	teams := []Team{
		{ID: "t1", Name: "One", Skills: []string{"Go", "SQL"}, ProductivityRate: 0.7, Workload: 1, Capacity: 3},
	}
	snapshot := make([]Team, len(teams))
	copy(snapshot, teams)

	if _, err := s.Score(Bounty{ID: "b1", RequiredSkills: []string{"go"}}, teams); err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if !reflect.DeepEqual(teams, snapshot) {
		t.Error("Score mutated its candidate slice")
	}
}

func TestScoreErrors(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())

	t.Run("empty candidates", func(t *testing.T) {
		_, err := s.Score(Bounty{ID: "b1"}, nil)
		if !errors.Is(err, ErrNoCandidates) {
			t.Errorf("expected ErrNoCandidates, got %v", err)
		}
	})

	t.Run("missing team id", func(t *testing.T) {
		_, err := s.Score(Bounty{ID: "b1"}, []Team{{Name: "Anonymous"}})
		if !errors.Is(err, ErrInvalidTeam) {
			t.Errorf("expected ErrInvalidTeam, got %v", err)
		}
	})
}
