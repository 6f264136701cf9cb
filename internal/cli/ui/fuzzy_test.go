package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"wait", "", 4},
		{"kitten", "sitting", 3},
		{"motor_on", "motor_on", 0},
		{"motr_on", "motor_on", 1},
		{"モーター", "モータ", 1},
		{"センサー", "タイマー", 3},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"motor_on", "motor_off", "motor_fwd", "wait", "play_tone"}

	got := FindSimilar("motr_on", candidates, nil)
	want := []string{"motor_on", "motor_off"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindSimilar() = %v, want %v", got, want)
	}

	got = FindSimilar("WAIT", candidates, nil)
	if !reflect.DeepEqual(got, []string{"wait"}) {
		t.Errorf("case-insensitive FindSimilar() = %v", got)
	}

	got = FindSimilar("WAIT", candidates, &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1})
	if len(got) != 0 {
		t.Errorf("case-sensitive FindSimilar() = %v, want none", got)
	}

	got = FindSimilar("zzzzzzzz", candidates, nil)
	if len(got) != 0 {
		t.Errorf("FindSimilar() = %v, want none", got)
	}
}
