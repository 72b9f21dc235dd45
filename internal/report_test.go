package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func demoAnalysis() *Analysis {
	return &Analysis{
		URL:     "https://youtu.be/abc123",
		Info:    VideoInfo{VideoID: "abc123", Title: "Demo", Duration: 120},
		Summary: "# Key Points\n- first",
	}
}

func TestReportDefaultTemplate(t *testing.T) {
	rm := NewReportManager(t.TempDir(), "")

	report, err := rm.CreateReport(demoAnalysis())
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	for _, want := range []string{"# Demo", "2:00", "https://www.youtube.com/embed/abc123", "# Key Points\n- first"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "No transcript") {
		t.Error("no-transcript notice shown for a video with a transcript")
	}

	analysis := demoAnalysis()
	analysis.NoTranscript = true
	report, err = rm.CreateReport(analysis)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if !strings.Contains(report, "No transcript was available") {
		t.Errorf("report missing no-transcript notice:\n%s", report)
	}
}

func TestReportInlineTemplate(t *testing.T) {
	rm := NewReportManager(t.TempDir(), "{{.Title}} ({{.VideoID}}): {{.Summary}}")

	report, err := rm.CreateReport(demoAnalysis())
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report != "Demo (abc123): # Key Points\n- first" {
		t.Errorf("report = %q", report)
	}
}

func TestReportTemplateFiles(t *testing.T) {
	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, "report.tmpl"), []byte("config: {{.Title}}"), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := NewReportManager(configDir, "").CreateReport(demoAnalysis())
	if err != nil || report != "config: Demo" {
		t.Errorf("config dir template: %q, %v", report, err)
	}

	custom := filepath.Join(t.TempDir(), "custom.tmpl")
	if err := os.WriteFile(custom, []byte("custom: {{.EmbedURL}}"), 0644); err != nil {
		t.Fatal(err)
	}
	report, err = NewReportManager(configDir, custom).CreateReport(demoAnalysis())
	if err != nil || report != "custom: https://www.youtube.com/embed/abc123" {
		t.Errorf("custom template: %q, %v", report, err)
	}
}

func TestReportInvalidTemplate(t *testing.T) {
	rm := NewReportManager(t.TempDir(), "{{.Title")
	if _, err := rm.CreateReport(demoAnalysis()); err == nil {
		t.Error("expected parse error")
	}
}

func TestIsLikelyFilePath(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"~/report.tmpl", true},
		{"report.tmpl", true},
		{"{{.Summary}}", false},
		{"# {{.Title}}/{{.VideoID}}", false},
		{"just some words", false},
	}
	for _, tt := range tests {
		if got := IsLikelyFilePath(tt.input); got != tt.want {
			t.Errorf("IsLikelyFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
