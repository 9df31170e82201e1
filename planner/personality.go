package planner

import (
	"fmt"
	"strings"
)

// Difficulty scales how eagerly the planner closes distance.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

var difficultyScale = map[Difficulty]float64{
	Easy:   0.6,
	Normal: 1.0,
	Hard:   1.2,
	Expert: 1.4,
}

// ParseDifficulty accepts the preset names case-insensitively. An empty
// string means Normal.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return Normal, nil
	}
	d := Difficulty(strings.ToLower(s))
	if _, ok := difficultyScale[d]; !ok {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Personality tunes the move scorer. Weights are 0.0–1.0.
type Personality struct {
	Name           string     `json:"name" yaml:"name"`
	Aggressiveness float64    `json:"aggressiveness" yaml:"aggressiveness"`
	Explore        float64    `json:"explore" yaml:"explore"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
}

// DefaultPersonality returns the stock computer opponent.
func DefaultPersonality() Personality {
	return Personality{
		Name:           "Standard",
		Aggressiveness: 0.7,
		Explore:        0.3,
		Difficulty:     Normal,
	}
}

// Validate clamps all weights to their valid ranges and resets an unknown
// difficulty to Normal.
func (p *Personality) Validate() {
	p.Aggressiveness = clamp(p.Aggressiveness, 0, 1)
	p.Explore = clamp(p.Explore, 0, 1)
	if _, ok := difficultyScale[p.Difficulty]; !ok {
		p.Difficulty = Normal
	}
}

// EffectiveAggressiveness applies the difficulty multiplier.
func (p Personality) EffectiveAggressiveness() float64 {
	scale, ok := difficultyScale[p.Difficulty]
	if !ok {
		scale = 1
	}
	return clamp(p.Aggressiveness*scale, 0, 1)
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
