package downloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSelectDownloadedFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		files     []string // created in the test dir
		stale     []string // created, then backdated before the download start
		wantFile  string   // expected basename
		wantError bool
	}{
		{
			name:     "prefers mp4 over webm",
			files:    []string{"clip.webm", "clip.mp4"},
			wantFile: "clip.mp4",
		},
		{
			name:     "mkv when no mp4",
			files:    []string{"clip.mkv", "clip.webm"},
			wantFile: "clip.mkv",
		},
		{
			name:     "audio extraction result",
			files:    []string{"song.mp3", "song.webm.part"},
			wantFile: "song.mp3",
		},
		{
			name:     "ignores files older than the download",
			files:    []string{"new.webm"},
			stale:    []string{"old.mp4"},
			wantFile: "new.webm",
		},
		{
			name:      "ignores sidecar files",
			files:     []string{"clip.en.vtt", "clip.info.json"},
			wantError: true,
		},
		{
			name:      "error when no files",
			files:     []string{},
			wantError: true,
		},
		{
			name:     "handles multiple extensions correctly",
			files:    []string{"clip.avi", "clip.flv", "clip.mov"},
			wantFile: "clip.mov", // mov priority (3) < avi (4) < flv (5)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := filepath.Join(tmpDir, tt.name)
			if err := os.MkdirAll(testDir, 0o755); err != nil {
				t.Fatalf("Failed to create test dir: %v", err)
			}

			since := time.Now().Add(-time.Minute)
			old := since.Add(-time.Hour)
			for _, f := range tt.stale {
				path := filepath.Join(testDir, f)
				if err := os.WriteFile(path, []byte("test"), 0o644); err != nil {
					t.Fatalf("Failed to create test file %s: %v", f, err)
				}
				if err := os.Chtimes(path, old, old); err != nil {
					t.Fatalf("Failed to backdate %s: %v", f, err)
				}
			}
			for _, f := range tt.files {
				path := filepath.Join(testDir, f)
				if err := os.WriteFile(path, []byte("test"), 0o644); err != nil {
					t.Fatalf("Failed to create test file %s: %v", f, err)
				}
			}

			got, err := SelectDownloadedFile(testDir, since)

			if tt.wantError {
				if err == nil {
					t.Errorf("SelectDownloadedFile() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Errorf("SelectDownloadedFile() unexpected error: %v", err)
				return
			}
			if gotBase := filepath.Base(got); gotBase != tt.wantFile {
				t.Errorf("SelectDownloadedFile() = %v, want %v", gotBase, tt.wantFile)
			}
		})
	}
}

func TestExtPriority(t *testing.T) {
	tests := []struct {
		ext  string
		want int
	}{
		{ext: ".mp4", want: 0},
		{ext: ".mkv", want: 1},
		{ext: ".webm", want: 2},
		{ext: ".mov", want: 3},
		{ext: ".avi", want: 4},
		{ext: ".flv", want: 5},
		{ext: ".opus", want: 6},
		{ext: ".part", want: 100},
		{ext: ".MP4", want: 0}, // Case insensitive
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := extPriority(tt.ext); got != tt.want {
				t.Errorf("extPriority(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}
