package models

import "testing"

func TestFilterCriteriaMatches(t *testing.T) {
	criteria := FilterCriteria{Genre: "post-rock", Floor: 88, Ceiling: 92}

	tests := []struct {
		name    string
		tempo   float64
		doubled bool
		want    bool
	}{
		{"inside the range", 90, false, true},
		{"on the floor", 88, false, true},
		{"on the ceiling", 92, false, true},
		{"below the floor", 87.9, false, false},
		{"above the ceiling", 92.1, false, false},
		{"doubled tempo without the flag", 180, false, false},
		{"doubled tempo with the flag", 180, true, true},
		{"doubled floor boundary", 176, true, true},
		{"doubled ceiling boundary", 184, true, true},
		{"between the ranges", 95, true, false},
		{"zero tempo", 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria
			c.Doubled = tt.doubled
			if got := c.Matches(tt.tempo); got != tt.want {
				t.Errorf("Matches(%v) with doubled=%v = %v, want %v", tt.tempo, tt.doubled, got, tt.want)
			}
		})
	}
}

func TestFilterCriteriaValidate(t *testing.T) {
	valid := FilterCriteria{Genre: "post-rock", Floor: 88, Ceiling: 92}

	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid criteria, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*FilterCriteria)
	}{
		{"empty genre", func(c *FilterCriteria) { c.Genre = "" }},
		{"negative floor", func(c *FilterCriteria) { c.Floor = -1 }},
		{"ceiling below floor", func(c *FilterCriteria) { c.Floor = 100; c.Ceiling = 90 }},
		{"negative batch size", func(c *FilterCriteria) { c.MaxPerPlaylist = -1 }},
		{"negative total", func(c *FilterCriteria) { c.MaxTotal = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
