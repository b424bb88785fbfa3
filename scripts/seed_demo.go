// seed_demo.go — standalone script to seed demo teams and bounties via the BountyAI API.
//
// Usage:
//
//	go run scripts/seed_demo.go -api http://localhost:8700 -assign
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type teamPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Skills           []string `json:"skills"`
	ProductivityRate float64  `json:"productivity_rate"`
	Workload         int      `json:"current_workload,omitempty"`
	Capacity         int      `json:"max_capacity"`
}

type bountyPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Reward         float64  `json:"reward,omitempty"`
	Owner          string   `json:"owner,omitempty"`
}

var demoTeams = []teamPayload{
	{Name: "Pixel Pushers", Description: "Frontend specialists", Skills: []string{"frontend", "react", "ui/ux"}, ProductivityRate: 0.85, Workload: 2, Capacity: 5},
	{Name: "Data Diggers", Description: "Backend and data", Skills: []string{"backend", "python", "postgresql"}, ProductivityRate: 0.9, Capacity: 4},
	{Name: "Ship It Squad", Description: "Full stack generalists", Skills: []string{"frontend", "backend", "devops"}, ProductivityRate: 0.7, Workload: 1, Capacity: 6},
	{Name: "Night Owls", Description: "Infra and tooling", Skills: []string{"devops", "kubernetes", "go"}, ProductivityRate: 0.65, Capacity: 3},
}

var demoBounties = []bountyPayload{
	{Title: "Landing page revamp", RequiredSkills: []string{"frontend", "react"}, Difficulty: "medium", Reward: 500, Owner: "marketing"},
	{Title: "ETL pipeline for signup events", RequiredSkills: []string{"backend", "python"}, Difficulty: "hard", Reward: 1200, Owner: "data"},
	{Title: "CI cluster autoscaling", RequiredSkills: []string{"devops", "kubernetes"}, Difficulty: "hard", Reward: 900, Owner: "platform"},
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "BountyAI API base URL")
	assign := flag.Bool("assign", false, "run assignment on each seeded bounty")
	flag.Parse()

	for _, t := range demoTeams {
		if err := post(*apiURL+"/api/v1/teams", t, nil); err != nil {
			log.Fatalf("seed team %q: %v", t.Name, err)
		}
		fmt.Printf("created team %s\n", t.Name)
	}

	for _, b := range demoBounties {
		var created struct {
			ID string `json:"id"`
		}
		if err := post(*apiURL+"/api/v1/bounties", b, &created); err != nil {
			log.Fatalf("seed bounty %q: %v", b.Title, err)
		}
		fmt.Printf("created bounty %s (%s)\n", b.Title, created.ID)

		if *assign {
			var result struct {
				Team struct {
					Name string `json:"name"`
				} `json:"assigned_team"`
				FitScore  float64 `json:"fit_score"`
				Reasoning string  `json:"reasoning"`
			}
			if err := post(*apiURL+"/api/v1/bounties/"+created.ID+"/assign", nil, &result); err != nil {
				log.Printf("assign bounty %q: %v", b.Title, err)
				continue
			}
			fmt.Printf("  assigned to %s (%.1f): %s\n", result.Team.Name, result.FitScore, result.Reasoning)
		}
	}
}

func post(url string, payload interface{}, out interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}

	resp, err := http.Post(url, "application/json", &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
