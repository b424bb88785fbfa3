package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each scoring component.
// All weights must sum to 1.0 (±0.001 tolerance).
type WeightSet struct {
	SkillMatch   float64
	Productivity float64
	Availability float64
}

// DefaultWeights returns the standard weight distribution: skill match
// dominates, then productivity, then workload availability.
func DefaultWeights() WeightSet {
	return WeightSet{
		SkillMatch:   0.50,
		Productivity: 0.30,
		Availability: 0.20,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.SkillMatch + w.Productivity + w.Availability
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.SkillMatch, w.Productivity, w.Availability} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}
