package conv

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw   string
		text  string
		noise bool
	}{
		{"Hello, Iris!", "hello iris", false},
		{"What's the   time?", "what's the time", false},
		{"", "", true},
		{"   ", "", true},
		{"Thank you.", "thank you", true},
		{"15 15 15 15 15 15 15", "15 15 15 15 15 15 15", true},
		{"Thanks for watching!", "thanks for watching", true},
		{"thank you for the tea", "thank you for the tea", false},
	}
	for _, tc := range cases {
		u := Normalize(tc.raw)
		if u.Text != tc.text {
			t.Errorf("Normalize(%q).Text = %q, want %q", tc.raw, u.Text, tc.text)
		}
		if u.Noise != tc.noise {
			t.Errorf("Normalize(%q).Noise = %v, want %v", tc.raw, u.Noise, tc.noise)
		}
		if u.Raw != tc.raw {
			t.Errorf("Normalize(%q).Raw = %q", tc.raw, u.Raw)
		}
	}
}
