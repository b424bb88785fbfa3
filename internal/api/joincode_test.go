package api

import (
	"regexp"
	"strings"
	"testing"
)

var codeShape = regexp.MustCompile(`^[A-Z]{5}-\d{3}[A-Z]$`)

func TestCodePrefix(t *testing.T) {
	tests := []struct {
		name     string
		teamName string
		want     string
	}{
		{"plain name", "Pixel Pushers", "PIXEL"},
		{"short name padded", "Go", "GOABC"},
		{"digits and symbols stripped", "Team-42!", "TEAMA"},
		{"no letters falls back", "12345", "SQUAD"},
		{"long name truncated", "Backend Builders Collective", "BACKE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codePrefix(tt.teamName); got != tt.want {
				t.Errorf("codePrefix(%q) = %q, want %q", tt.teamName, got, tt.want)
			}
		})
	}
}

func TestGenerateJoinCodeShape(t *testing.T) {
	code, err := GenerateJoinCode("Pixel Pushers", nil)
	if err != nil {
		t.Fatalf("GenerateJoinCode failed: %v", err)
	}
	if !codeShape.MatchString(code) {
		t.Errorf("code %q does not match PREFIX-123X shape", code)
	}
	if !strings.HasPrefix(code, "PIXEL-") {
		t.Errorf("expected PIXEL prefix, got %q", code)
	}
}

func TestGenerateJoinCodeAvoidsTaken(t *testing.T) {
	taken := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateJoinCode("Collide", taken)
		if err != nil {
			t.Fatalf("attempt %d failed: %v", i, err)
		}
		if taken[code] {
			t.Fatalf("code %q returned twice", code)
		}
		taken[code] = true
	}
}

func TestGenerateJoinCodeExhaustion(t *testing.T) {
	// Mark the entire 900*26 candidate space as taken.
	taken := make(map[string]bool)
	for n := 100; n < 1000; n++ {
		for c := 'A'; c <= 'Z'; c++ {
			taken["FULLY-"+string(rune('0'+n/100))+string(rune('0'+(n/10)%10))+string(rune('0'+n%10))+string(c)] = true
		}
	}

	_, err := GenerateJoinCode("Fully Booked", taken)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
}
