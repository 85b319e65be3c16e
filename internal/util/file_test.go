package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		want bool
	}{
		{"/videos/movie.mp4", ".mp4", true},
		{"/videos/MOVIE.MP4", ".mp4", true},
		{"/videos/movie.mkv", ".mp4", false},
		{"/videos/movie", ".mp4", false},
		{"/videos/movie.mp4.partial", ".mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := HasExtension(tt.path, tt.ext); got != tt.want {
				t.Errorf("HasExtension(%q, %q) = %v, want %v", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/videos/movie.mp4", "/videos/movie.mkv"},
		{"/videos/season1/e01.mp4", "/videos/season1/e01.mkv"},
		{"clip.mp4", "clip.mkv"},
		{"/videos/some.film.2019.mp4", "/videos/some.film.2019.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := OutputPath(tt.input, ".mkv"); got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/videos/movie.mp4", "movie"},
		{"/videos/some.film.2019.mp4", "some.film.2019"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := GetFileStem(tt.path); got != tt.want {
			t.Errorf("GetFileStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.mkv")

	if FileExists(path) {
		t.Error("FileExists should be false before creation")
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists should be true for a regular file")
	}
	if FileExists(dir) {
		t.Error("FileExists should be false for a directory")
	}
	if !DirectoryExists(dir) {
		t.Error("DirectoryExists should be true for a directory")
	}
	if DirectoryExists(path) {
		t.Error("DirectoryExists should be false for a regular file")
	}
}

func TestGetFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mkv")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	size, err := GetFileSize(path)
	if err != nil {
		t.Fatalf("GetFileSize() error = %v", err)
	}
	if size != 5 {
		t.Errorf("GetFileSize() = %d, want 5", size)
	}

	if _, err := GetFileSize(path + ".missing"); err == nil {
		t.Error("GetFileSize() should fail for a missing file")
	}
}
