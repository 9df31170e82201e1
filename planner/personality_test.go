package planner

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0.0},
		{1.5, 0, 1, 1.0},
		{0.0, 0, 1, 0.0},
		{1.0, 0, 1, 1.0},
	}
	for _, tc := range tests {
		got := clamp(tc.v, tc.min, tc.max)
		if got != tc.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestDefaultPersonality(t *testing.T) {
	p := DefaultPersonality()
	if p.Aggressiveness != 0.7 {
		t.Errorf("Aggressiveness = %f, want 0.7", p.Aggressiveness)
	}
	if p.Explore != 0.3 {
		t.Errorf("Explore = %f, want 0.3", p.Explore)
	}
	if p.Difficulty != Normal {
		t.Errorf("Difficulty = %q, want %q", p.Difficulty, Normal)
	}
}

func TestValidateClampsWeights(t *testing.T) {
	p := Personality{Aggressiveness: 3, Explore: -1, Difficulty: "nightmare"}
	p.Validate()
	if p.Aggressiveness != 1 || p.Explore != 0 {
		t.Errorf("weights = %f/%f, want 1/0", p.Aggressiveness, p.Explore)
	}
	if p.Difficulty != Normal {
		t.Errorf("Difficulty = %q, want normal", p.Difficulty)
	}
}

func TestEffectiveAggressiveness(t *testing.T) {
	tests := []struct {
		aggr float64
		diff Difficulty
		want float64
	}{
		{0.7, Easy, 0.42},
		{0.7, Normal, 0.7},
		{0.7, Hard, 0.84},
		{0.7, Expert, 0.98},
		{0.9, Expert, 1.0}, // 1.26 clamped
		{0.0, Expert, 0.0},
	}
	for _, tc := range tests {
		p := Personality{Aggressiveness: tc.aggr, Difficulty: tc.diff}
		if got := p.EffectiveAggressiveness(); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("EffectiveAggressiveness(%.1f, %s) = %f, want %f", tc.aggr, tc.diff, got, tc.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"", Normal, false},
		{"easy", Easy, false},
		{"EXPERT", Expert, false},
		{"Hard", Hard, false},
		{"insane", "", true},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
