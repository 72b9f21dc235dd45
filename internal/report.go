package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// ReportData for template injection
type ReportData struct {
	Title        string
	VideoID      string
	URL          string
	EmbedURL     string
	Duration     string
	NoTranscript bool
	Summary      string
}

// ReportManager handles loading and executing report templates
type ReportManager struct {
	templateFile   string
	templateString string
	configDir      string
}

// NewReportManager creates a new report manager
func NewReportManager(configDir, templateSetting string) *ReportManager {
	rm := &ReportManager{
		configDir: configDir,
	}

	if templateSetting != "" {
		if IsLikelyFilePath(templateSetting) && FileExists(templateSetting) {
			rm.templateFile = templateSetting
		} else {
			rm.templateString = templateSetting
		}
	}

	return rm
}

// CreateReport builds the markdown report for a finished analysis
func (rm *ReportManager) CreateReport(analysis *Analysis) (string, error) {
	tmplContent, err := rm.templateContent()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("report").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("parsing report template: %w", err)
	}

	data := ReportData{
		Title:        analysis.Info.Title,
		VideoID:      analysis.Info.VideoID,
		URL:          analysis.URL,
		EmbedURL:     analysis.Info.EmbedURL(),
		NoTranscript: analysis.NoTranscript,
		Summary:      analysis.Summary,
	}
	if analysis.Info.Duration > 0 {
		data.Duration = analysis.Info.FormattedDuration()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing report template: %w", err)
	}

	return buf.String(), nil
}

// templateContent resolves the template: inline string, custom file, config dir file, embedded default
func (rm *ReportManager) templateContent() (string, error) {
	if rm.templateString != "" {
		return rm.templateString, nil
	}

	templateFile := rm.templateFile
	if templateFile == "" {
		templateFile = filepath.Join(rm.configDir, "report.tmpl")
		if !FileExists(templateFile) {
			content, err := defaultFS.ReadFile("report.tmpl")
			if err != nil {
				return "", fmt.Errorf("reading embedded report template: %w", err)
			}
			return string(content), nil
		}
	}

	content, err := os.ReadFile(templateFile)
	if err != nil {
		return "", fmt.Errorf("reading report template: %w", err)
	}
	return string(content), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	// Template actions mean an inline template
	if strings.Contains(s, "{{") {
		return false
	}

	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a template string
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
