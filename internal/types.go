package internal

import (
	"fmt"
	"strings"
)

// Phase is the single active step of the summarization workflow
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetchingInfo
	PhaseFetchingTranscript
	PhaseSummarizing
	PhaseReady
	PhaseDownloading
	PhaseDownloadDone
	PhaseFailed
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetchingInfo:
		return "fetching-info"
	case PhaseFetchingTranscript:
		return "fetching-transcript"
	case PhaseSummarizing:
		return "summarizing"
	case PhaseReady:
		return "ready"
	case PhaseDownloading:
		return "downloading"
	case PhaseDownloadDone:
		return "download-done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// analyzing reports whether the phase belongs to a running analysis
func (p Phase) analyzing() bool {
	return p == PhaseFetchingInfo || p == PhaseFetchingTranscript || p == PhaseSummarizing
}

// isValidTransition enforces the workflow state machine edges
func isValidTransition(from, to Phase) bool {
	if to == PhaseIdle {
		return true
	}
	switch from {
	case PhaseIdle:
		return to == PhaseFetchingInfo || to == PhaseDownloading
	case PhaseFetchingInfo:
		return to == PhaseFetchingTranscript || to == PhaseFailed
	case PhaseFetchingTranscript:
		return to == PhaseSummarizing || to == PhaseFailed
	case PhaseSummarizing:
		return to == PhaseReady || to == PhaseFailed
	case PhaseReady, PhaseDownloadDone:
		return to == PhaseDownloading
	case PhaseDownloading:
		return to == PhaseDownloadDone || to == PhaseFailed
	case PhaseFailed:
		return to == PhaseDownloading
	default:
		return false
	}
}

// DownloadState tracks a single download attempt
type DownloadState int

const (
	DownloadIdle DownloadState = iota
	DownloadRequesting
	DownloadTransferring
	DownloadCompleted
	DownloadFailed
)

func (s DownloadState) String() string {
	switch s {
	case DownloadIdle:
		return "idle"
	case DownloadRequesting:
		return "requesting"
	case DownloadTransferring:
		return "transferring"
	case DownloadCompleted:
		return "completed"
	case DownloadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// VideoInfo is the metadata the backend returns for a video
type VideoInfo struct {
	VideoID  string  `json:"video_id" yaml:"video_id"`
	Title    string  `json:"title" yaml:"title"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// EmbedURL returns the standard embed player URL for the video
func (v *VideoInfo) EmbedURL() string {
	if v == nil || v.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + v.VideoID
}

// FormattedDuration returns the duration as m:ss or h:mm:ss
func (v *VideoInfo) FormattedDuration() string {
	if v == nil {
		return ""
	}
	total := int(v.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// WorkflowState is the observable state of the analysis/download workflow
type WorkflowState struct {
	URL          string
	Phase        Phase
	ErrorMessage string
	Info         *VideoInfo
	Transcript   string
	NoTranscript bool
	Summary      string
}

// Snapshot is a consistent copy of everything the controller exposes
type Snapshot struct {
	Workflow      WorkflowState
	Analysis      Progress
	Download      Progress
	DownloadState DownloadState
}

// Analysis is the result of a successful analysis
type Analysis struct {
	URL          string
	Info         VideoInfo
	Transcript   string
	NoTranscript bool
	Summary      string
}

// Artifact describes a downloaded file saved to disk
type Artifact struct {
	Path        string
	ContentType string
	Size        int64
}

// ContentType represents the kind of input the user passed
type ContentType int

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeVideo
	ContentTypeCommand
)

// String returns a human-readable representation of the content type
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeVideo:
		return "video"
	case ContentTypeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ParsedArg represents the result of parsing a command line argument
type ParsedArg struct {
	ContentType   ContentType
	OriginalInput string
	NormalizedURL string
	ID            string
	Error         error
}

// IsValid returns true if the parsed argument is valid and has no errors
func (p *ParsedArg) IsValid() bool {
	return p.Error == nil && p.ContentType == ContentTypeVideo
}

// String returns a formatted representation of the parsed argument
func (p *ParsedArg) String() string {
	if p.Error != nil {
		return fmt.Sprintf("ParsedArg{type=%s, input=%q, error=%v}", p.ContentType, p.OriginalInput, p.Error)
	}
	return fmt.Sprintf("ParsedArg{type=%s, id=%s, url=%s}", p.ContentType, p.ID, p.NormalizedURL)
}

// SuggestCorrection provides helpful suggestions for invalid inputs
func (p *ParsedArg) SuggestCorrection(availableCommands []string) string {
	if p.ContentType != ContentTypeCommand {
		return ""
	}

	input := strings.ToLower(p.OriginalInput)
	var suggestions []string

	for _, cmd := range availableCommands {
		if strings.Contains(cmd, input) || strings.Contains(input, cmd) {
			suggestions = append(suggestions, cmd)
		}
	}

	if len(suggestions) > 0 {
		return fmt.Sprintf("did you mean: %s", strings.Join(suggestions, ", "))
	}

	return "use --help to see available commands"
}
