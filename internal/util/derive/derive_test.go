package derive

import "testing"

func TestLoopsNeeded(t *testing.T) {
	tests := []struct {
		name           string
		source, target float64
		want           uint
	}{
		{name: "equal durations need no repetition", source: 12.5, target: 12.5, want: 1},
		{name: "rounds up", source: 10, target: 25, want: 3},
		{name: "exact multiple", source: 10, target: 30, want: 3},
		{name: "zero source", source: 0, target: 25, want: 0},
		{name: "negative source", source: -1, target: 25, want: 0},
		{name: "target shorter than source", source: 30, target: 10, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoopsNeeded(tt.source, tt.target); got != tt.want {
				t.Errorf("LoopsNeeded(%v, %v) = %d, want %d", tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestCRFFromQuality(t *testing.T) {
	tests := []struct {
		q    uint
		want uint
	}{
		{q: 0, want: 51},
		{q: 50, want: 26},
		{q: 75, want: 13},
		{q: 100, want: 0},
		{q: 250, want: 0},
	}
	for _, tt := range tests {
		if got := CRFFromQuality(tt.q); got != tt.want {
			t.Errorf("CRFFromQuality(%d) = %d, want %d", tt.q, got, tt.want)
		}
	}
}

func TestCRFFromQualityMonotonic(t *testing.T) {
	prev := CRFFromQuality(0)
	for q := uint(1); q <= 100; q++ {
		got := CRFFromQuality(q)
		if got > prev {
			t.Fatalf("CRFFromQuality(%d) = %d rose above CRFFromQuality(%d) = %d", q, got, q-1, prev)
		}
		prev = got
	}
}
