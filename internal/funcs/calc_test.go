package funcs

import (
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"347 * 23", 7981},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 4", 2.5},
		{"10 % 3", 1},
		{"-5 + 3", -2},
		{"2 * -3", -6},
		{"--4", 4},
		{"3.5 + 0.5", 4},
		{"  42  ", 42},
	}
	for _, tc := range cases {
		got, err := evaluate(tc.expr)
		if err != nil {
			t.Errorf("evaluate(%q): %v", tc.expr, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1 + ",
		"(1 + 2",
		"1 / 0",
		"10 % 0",
		"two + two",
		"os.exit(1)",
		"1 2",
	}
	for _, expr := range cases {
		if _, err := evaluate(expr); err == nil {
			t.Errorf("evaluate(%q) should fail", expr)
		}
	}
}
