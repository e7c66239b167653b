package util

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full URL", raw: "https://www.youtube.com/watch?v=abc", want: "https://www.youtube.com/watch?v=abc"},
		{name: "missing scheme", raw: "youtu.be/abc", want: "https://youtu.be/abc"},
		{name: "surrounding spaces", raw: "  https://vimeo.com/1 ", want: "https://vimeo.com/1"},
		{name: "ftp rejected", raw: "ftp://example.com/a.mp4", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "https://www.youtube.com/playlist?list=PL123", want: true},
		{raw: "https://www.youtube.com/watch?v=abc&list=PL123", want: true},
		{raw: "https://www.youtube.com/watch?v=abc", want: false},
		{raw: "https://vimeo.com/showcase/123", want: false},
	}
	for _, tt := range tests {
		if got := IsPlaylistURL(tt.raw); got != tt.want {
			t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
