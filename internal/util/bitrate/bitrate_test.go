package bitrate

import "testing"

func TestComputeVideoKbps(t *testing.T) {
	tests := []struct {
		name        string
		maxSizeMB   int
		durationSec float64
		audioKbps   int
		want        int
	}{
		{
			name:        "50MB over a minute",
			maxSizeMB:   50,
			durationSec: 60.0,
			audioKbps:   128,
			want:        6862, // int(((50*1024*1024*8)/60)/1000) - 128
		},
		{name: "unknown duration uses max", maxSizeMB: 50, durationSec: 0, audioKbps: 128, want: 50000},
		{name: "negative duration uses max", maxSizeMB: 50, durationSec: -1, audioKbps: 128, want: 50000},
		{name: "tiny budget clamps to min", maxSizeMB: 1, durationSec: 3600, audioKbps: 128, want: 100},
		{name: "huge budget clamps to max", maxSizeMB: 4000, durationSec: 10, audioKbps: 128, want: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeVideoKbps(tt.maxSizeMB, tt.durationSec, tt.audioKbps, 100, 50000)
			if got != tt.want {
				t.Errorf("ComputeVideoKbps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want int
	}{
		{v: 50, min: 0, max: 100, want: 50},
		{v: -10, min: 0, max: 100, want: 0},
		{v: 150, min: 0, max: 100, want: 100},
		{v: 50, min: 42, max: 42, want: 42},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}
