package decode

import (
	"strings"
	"testing"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"118.5", f64(118.5)},
		{"116", f64(116)},
		{"  121  ", f64(121)},
		{"", nil},
		{"-", nil},
		{"N/A", nil},
		{"abc", nil},
		{"1.2.3", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Float(tt.input)
			if !eqF(got, tt.want) {
				t.Errorf("Float(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		input string
		want  *int64
	}{
		{"23415", i64(23415)},
		{"1,000", i64(1000)},
		{"12,345,678", i64(12345678)},
		{"118.9", i64(118)}, // decimal volume truncates
		{"", nil},
		{"-", nil},
		{"N/A", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Int(tt.input)
			if !eqI(got, tt.want) {
				t.Errorf("Int(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestLadderPrices(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []*float64
	}{
		{"trailing pad dropped", "1_2_", []*float64{f64(1), f64(2)}},
		{"full five levels", "119_120_121_122_123", []*float64{f64(119), f64(120), f64(121), f64(122), f64(123)}},
		{"sentinel level", "119_-_121_", []*float64{f64(119), nil, f64(121)}},
		{"empty token", "", nil},
		{"all padding", "____", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LadderPrices(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("LadderPrices(%q) returned %d levels, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if !eqF(got[i], tt.want[i]) {
					t.Errorf("level %d = %v, want %v", i+1, deref(got[i]), deref(tt.want[i]))
				}
			}
		})
	}
}

func TestLadderSizes(t *testing.T) {
	got := LadderSizes("10_20_")
	if len(got) != 2 || !eqI(got[0], i64(10)) || !eqI(got[1], i64(20)) {
		t.Errorf("LadderSizes(%q) = %v, want [10 20]", "10_20_", got)
	}
}

func TestTimestamp(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ts := Timestamp("20250919", "13:30:00")
		if ts == nil {
			t.Fatal("Timestamp returned nil for valid input")
		}
		if !strings.Contains(*ts, "2025-09-19T13:30:00") {
			t.Errorf("Timestamp = %q, want it to contain 2025-09-19T13:30:00", *ts)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name       string
			date, time string
		}{
			{"missing date", "", "13:30:00"},
			{"missing time", "20250919", ""},
			{"both missing", "", ""},
			{"bad date", "2025-09-19", "13:30:00"},
			{"bad time", "20250919", "133000"},
			{"impossible date", "20251341", "13:30:00"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := Timestamp(tt.date, tt.time); got != nil {
					t.Errorf("Timestamp(%q, %q) = %q, want nil", tt.date, tt.time, *got)
				}
			})
		}
	})
}

func TestTaipei(t *testing.T) {
	loc := Taipei()
	if loc == nil {
		t.Fatal("Taipei() returned nil location")
	}
	if loc != Taipei() {
		t.Error("Taipei() is not stable across calls")
	}
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func eqF(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqI(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(v any) any {
	switch p := v.(type) {
	case *float64:
		if p == nil {
			return "<nil>"
		}
		return *p
	case *int64:
		if p == nil {
			return "<nil>"
		}
		return *p
	}
	return v
}
