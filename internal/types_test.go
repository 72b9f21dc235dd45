package internal

import "testing"

func TestIsValidTransition(t *testing.T) {
	valid := [][2]Phase{
		{PhaseIdle, PhaseFetchingInfo},
		{PhaseFetchingInfo, PhaseFetchingTranscript},
		{PhaseFetchingTranscript, PhaseSummarizing},
		{PhaseSummarizing, PhaseReady},
		{PhaseReady, PhaseDownloading},
		{PhaseDownloading, PhaseDownloadDone},
		{PhaseDownloadDone, PhaseDownloading},
		{PhaseFailed, PhaseDownloading},
		{PhaseIdle, PhaseDownloading},
		{PhaseFetchingInfo, PhaseFailed},
		{PhaseSummarizing, PhaseFailed},
		{PhaseDownloading, PhaseFailed},
		{PhaseReady, PhaseIdle},
		{PhaseSummarizing, PhaseIdle},
	}
	for _, edge := range valid {
		if !isValidTransition(edge[0], edge[1]) {
			t.Errorf("%s -> %s should be valid", edge[0], edge[1])
		}
	}

	invalid := [][2]Phase{
		{PhaseIdle, PhaseSummarizing},
		{PhaseFetchingInfo, PhaseSummarizing},
		{PhaseFetchingInfo, PhaseReady},
		{PhaseFetchingTranscript, PhaseReady},
		{PhaseReady, PhaseFetchingInfo},
		{PhaseDownloading, PhaseReady},
		{PhaseFetchingInfo, PhaseDownloading},
		{PhaseIdle, PhaseFailed},
	}
	for _, edge := range invalid {
		if isValidTransition(edge[0], edge[1]) {
			t.Errorf("%s -> %s should be rejected", edge[0], edge[1])
		}
	}
}

func TestVideoInfoEmbedURL(t *testing.T) {
	info := &VideoInfo{VideoID: "abc123", Title: "Demo", Duration: 3725}
	if got := info.EmbedURL(); got != "https://www.youtube.com/embed/abc123" {
		t.Errorf("EmbedURL() = %q", got)
	}
	if got := info.FormattedDuration(); got != "1:02:05" {
		t.Errorf("FormattedDuration() = %q, want 1:02:05", got)
	}

	short := &VideoInfo{VideoID: "x", Duration: 65}
	if got := short.FormattedDuration(); got != "1:05" {
		t.Errorf("FormattedDuration() = %q, want 1:05", got)
	}

	var missing *VideoInfo
	if missing.EmbedURL() != "" {
		t.Error("nil info should have no embed URL")
	}
}
