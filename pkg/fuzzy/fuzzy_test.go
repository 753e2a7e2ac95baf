package fuzzy

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "iris", 4},
		{"iris", "", 4},
		{"iris", "iris", 0},
		{"irys", "iris", 1},  // substitution
		{"iri", "iris", 1},   // insertion
		{"iriss", "iris", 1}, // deletion
		{"irsi", "iris", 1},  // adjacent transposition
		{"idris", "iris", 1},
		{"siri", "iris", 2},
		{"computer", "iris", 8},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{{"irish", "iris"}, {"wake", "up"}, {"ires", "iris"}}
	for _, p := range pairs {
		if Distance(p[0], p[1]) != Distance(p[1], p[0]) {
			t.Errorf("Distance(%q, %q) not symmetric", p[0], p[1])
		}
	}
}
