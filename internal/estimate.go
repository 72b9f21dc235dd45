package internal

// Stage is a named sub-phase of the analysis or download flow
type Stage string

const (
	StageNone            Stage = ""
	StageInfo            Stage = "info"
	StageTranscript      Stage = "transcript"
	StageSummary         Stage = "summary"
	StageSummaryFallback Stage = "summary-fallback"
	StageDone            Stage = "done"

	StageRequesting Stage = "requesting"
	StageAudio      Stage = "audio"
	StageVideo      Stage = "video"
	StageMerging    Stage = "merging"
	StageComplete   Stage = "complete"
)

// Label returns the status line shown next to a progress bar
func (s Stage) Label() string {
	switch s {
	case StageInfo:
		return "Fetching video info..."
	case StageTranscript:
		return "Fetching transcript..."
	case StageSummary:
		return "Generating summary..."
	case StageSummaryFallback:
		return "No transcript found, summarizing anyway..."
	case StageDone:
		return "Done"
	case StageRequesting:
		return "Preparing download..."
	case StageAudio:
		return "Retrieving audio"
	case StageVideo:
		return "Retrieving video"
	case StageMerging:
		return "Merging audio and video"
	case StageComplete:
		return "Download complete"
	default:
		return ""
	}
}

// Progress is a client-side estimate; it never gates control flow
type Progress struct {
	Percent float64
	Stage   Stage
}

// Label returns the stage label
func (p Progress) Label() string {
	return p.Stage.Label()
}

// Advance moves the estimate forward. Percent never decreases and is clamped to [0, 100].
func (p Progress) Advance(percent float64, stage Stage) Progress {
	percent = clampPercent(percent)
	if percent > p.Percent {
		p.Percent = percent
	}
	if stage != StageNone {
		p.Stage = stage
	}
	return p
}

func clampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Raw transfer thresholds and the displayed ranges they map onto
const (
	audioRawEnd       = 20.0
	videoRawEnd       = 90.0
	audioDisplayedEnd = 10.0
	videoDisplayedEnd = 50.0
)

// MergeThreshold is the raw transfer percentage at which the merge simulation starts
const MergeThreshold = videoRawEnd

// MapTransfer rescales raw transfer progress onto the audio/video/merge timeline.
// 0-20% raw maps to 0-10% (audio), 20-90% raw to 10-50% (video), and anything
// beyond is reported as the start of the merge stage at 50%.
func MapTransfer(raw float64) Progress {
	raw = clampPercent(raw)
	switch {
	case raw <= audioRawEnd:
		return Progress{Percent: raw / audioRawEnd * audioDisplayedEnd, Stage: StageAudio}
	case raw < videoRawEnd:
		span := (raw - audioRawEnd) / (videoRawEnd - audioRawEnd)
		return Progress{Percent: audioDisplayedEnd + span*(videoDisplayedEnd-audioDisplayedEnd), Stage: StageVideo}
	default:
		return Progress{Percent: videoDisplayedEnd, Stage: StageMerging}
	}
}

// RawPercent returns received/total as a percentage, or -1 when total is unknown
func RawPercent(received, total int64) float64 {
	if total <= 0 {
		return -1
	}
	return float64(received) * 100 / float64(total)
}

// stepToward adds step to current without passing ceiling
func stepToward(current, step, ceiling float64) float64 {
	if current >= ceiling {
		return current
	}
	next := current + step
	if next > ceiling {
		return ceiling
	}
	return next
}
