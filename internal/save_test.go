package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaverExtensionFor(t *testing.T) {
	s := NewSaver(t.TempDir(), "mp4")

	tests := []struct{ contentType, want string }{
		{"video/mp4", ".mp4"},
		{"video/quicktime", ".mov"},
		{"video/webm; codecs=vp9", ".webm"},
		{"video/x-matroska", ".mkv"},
		{"application/octet-stream", ".mp4"},
		{"", ".mp4"},
		{"VIDEO/QUICKTIME", ".mov"},
	}
	for _, tt := range tests {
		if got := s.ExtensionFor(tt.contentType); got != tt.want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestSaverSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	s := NewSaver(dir, ".mp4")

	artifact, err := s.Save(context.Background(), "Demo: part 1/2", "video/quicktime", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "Demo_ part 1_2.mov"); artifact.Path != want {
		t.Errorf("path = %q, want %q", artifact.Path, want)
	}
	if artifact.Size != 4 || artifact.ContentType != "video/quicktime" {
		t.Errorf("artifact = %+v", artifact)
	}

	// an existing file is never overwritten
	second, err := s.Save(context.Background(), "Demo: part 1/2", "video/quicktime", strings.NewReader("more"))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if want := filepath.Join(dir, "Demo_ part 1_2 (1).mov"); second.Path != want {
		t.Errorf("path = %q, want %q", second.Path, want)
	}

	data, _ := os.ReadFile(artifact.Path)
	if string(data) != "data" {
		t.Errorf("first file content = %q", data)
	}
}

func TestSaverSaveFailureRemovesPartial(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, ".mp4")

	_, err := s.Save(context.Background(), "Demo", "video/mp4", errReader{errors.New("boom")})
	if err == nil {
		t.Fatal("expected error")
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Save(ctx, "Demo", "video/mp4", strings.NewReader("data")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ input, want string }{
		{"Demo", "Demo"},
		{"  a/b\\c:d  ", "a_b_c_d"},
		{"what?*<>|\"", "what______"},
		{"", "video"},
		{"...", "video"},
		{"..hidden", "hidden"},
		{"中文標題", "中文標題"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	long := SanitizeFilename(strings.Repeat("長", 100))
	if len(long) > 200 || !strings.HasPrefix(long, "長") {
		t.Errorf("long name = %d bytes", len(long))
	}
}

func TestCleanupPartialDownloads(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{partialPrefix + "123.part", "keep.mp4", "other.part"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := CleanupPartialDownloads(dir); err != nil {
		t.Fatalf("CleanupPartialDownloads: %v", err)
	}

	files := listFiles(t, dir)
	if strings.Join(files, ",") != "keep.mp4,other.part" {
		t.Errorf("files = %v", files)
	}

	if err := CleanupPartialDownloads(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("missing dir: %v", err)
	}
}
