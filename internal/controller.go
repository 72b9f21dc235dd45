package internal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned once the controller has been torn down
var ErrClosed = errors.New("controller closed")

// ControllerOptions tunes the simulated progress and user-facing messages
type ControllerOptions struct {
	TickInterval    time.Duration // analysis estimator cadence
	TickStep        float64       // percent added per analysis tick
	AnalysisCeiling float64       // analysis estimate never passes this before success

	MergeInterval time.Duration // merge simulation cadence
	MergeStep     float64       // percent added per merge tick
	MergeCeiling  float64       // download estimate never passes this before success

	ProgressStream bool // subscribe to server-side download progress

	NoTranscriptSentinel   string
	AnalysisFailureMessage string
	DownloadFailureMessage string
}

// DefaultControllerOptions returns the stock timings and messages
func DefaultControllerOptions() ControllerOptions {
	return ControllerOptions{
		TickInterval:           500 * time.Millisecond,
		TickStep:               5,
		AnalysisCeiling:        95,
		MergeInterval:          500 * time.Millisecond,
		MergeStep:              1,
		MergeCeiling:           99,
		NoTranscriptSentinel:   DefaultNoTranscriptSentinel,
		AnalysisFailureMessage: "Processing failed, please check that the video link is correct",
		DownloadFailureMessage: "Download failed, please try again later",
	}
}

// DefaultNoTranscriptSentinel is what the backend sends when a video has no captions
const DefaultNoTranscriptSentinel = "無字幕內容"

// ControllerOption customizes Controller creation
type ControllerOption func(*Controller)

// WithOptions replaces the controller options; zero fields keep their defaults
func WithOptions(opts ControllerOptions) ControllerOption {
	return func(c *Controller) {
		c.opts = mergeOptions(c.opts, opts)
	}
}

// WithObserver registers a callback receiving a snapshot on every change.
// It runs under the controller lock and must not call back into the controller.
func WithObserver(observer func(Snapshot)) ControllerOption {
	return func(c *Controller) {
		c.observer = observer
	}
}

// WithLogf sets the debug log sink
func WithLogf(logf func(format string, args ...any)) ControllerOption {
	return func(c *Controller) {
		if logf != nil {
			c.logf = logf
		}
	}
}

// attempt is one analysis or download run; token identifies it
type attempt struct {
	token  uint64
	cancel context.CancelFunc
	ticker *Ticker
}

// release aborts the attempt's request and stops its ticker.
// It must be called without holding the controller lock.
func (a attempt) release() {
	if a.cancel != nil {
		a.cancel()
	}
	a.ticker.Stop()
}

// Controller drives the analysis and download flows and owns the workflow state
type Controller struct {
	backend  Backend
	saver    *Saver
	opts     ControllerOptions
	observer func(Snapshot)
	logf     func(format string, args ...any)

	mu               sync.Mutex
	state            WorkflowState
	analysisProgress Progress
	downloadProgress Progress
	downloadState    DownloadState
	serverDriven     bool
	seq              uint64
	analysis         attempt
	download         attempt
	closed           bool
}

// NewController creates a controller in the idle phase
func NewController(backend Backend, saver *Saver, options ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		saver:   saver,
		opts:    DefaultControllerOptions(),
		logf:    func(string, ...any) {},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Analyze runs video info -> transcript -> summary strictly in sequence.
// Starting a new analysis supersedes and aborts any running analysis or download.
func (c *Controller) Analyze(ctx context.Context, videoURL string) (*Analysis, error) {
	videoURL = strings.TrimSpace(videoURL)
	if err := ValidateVideoURL(videoURL); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.seq++
	token := c.seq
	ctx, cancel := context.WithCancel(ctx)
	prevAnalysis, prevDownload := c.analysis, c.download
	c.analysis = attempt{token: token, cancel: cancel}
	c.download = attempt{}
	c.state = WorkflowState{URL: videoURL, Phase: PhaseIdle}
	c.analysisProgress = Progress{}
	c.downloadProgress = Progress{}
	c.downloadState = DownloadIdle
	c.serverDriven = false
	c.mu.Unlock()

	// the previous attempt's timers are gone before this attempt starts its own
	prevAnalysis.release()
	prevDownload.release()

	c.mu.Lock()
	if c.analysis.token == token {
		c.analysis.ticker = StartTicker(c.opts.TickInterval, func() { c.tickAnalysis(token) })
	}
	c.mu.Unlock()

	if err := c.enter(token, PhaseFetchingInfo, StageInfo, nil); err != nil {
		return nil, err
	}
	c.logf("Fetching video info for %s\n", videoURL)
	info, err := c.backend.VideoInfo(ctx, videoURL)
	if err != nil {
		return nil, c.failAnalysis(token, fmt.Errorf("fetching video info: %w", err))
	}

	err = c.enter(token, PhaseFetchingTranscript, StageTranscript, func(s *WorkflowState) {
		s.Info = info
	})
	if err != nil {
		return nil, err
	}
	c.logf("Fetching transcript for %s\n", info.VideoID)
	transcript, err := c.backend.Transcript(ctx, videoURL)
	if err != nil {
		return nil, c.failAnalysis(token, fmt.Errorf("fetching transcript: %w", err))
	}

	noTranscript := IsNoTranscript(transcript, c.opts.NoTranscriptSentinel)
	stage := StageSummary
	if noTranscript {
		stage = StageSummaryFallback
		c.logf("No transcript available for %s, summarizing without one\n", info.VideoID)
	}
	err = c.enter(token, PhaseSummarizing, stage, func(s *WorkflowState) {
		s.Transcript = transcript
		s.NoTranscript = noTranscript
	})
	if err != nil {
		return nil, err
	}
	summary, err := c.backend.Summary(ctx, transcript, info.Duration)
	if err != nil {
		return nil, c.failAnalysis(token, fmt.Errorf("generating summary: %w", err))
	}

	return c.completeAnalysis(token, summary)
}

// Download requests the processed video and saves it as <title>.<ext>.
// A new download supersedes the previous one; downloads are refused while analyzing.
func (c *Controller) Download(ctx context.Context, videoURL, title string) (*Artifact, error) {
	videoURL = strings.TrimSpace(videoURL)
	if err := ValidateVideoURL(videoURL); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state.Phase.analyzing() {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if c.state.Phase != PhaseDownloading && !isValidTransition(c.state.Phase, PhaseDownloading) {
		phase := c.state.Phase
		c.mu.Unlock()
		return nil, fmt.Errorf("invalid transition: %s -> %s", phase, PhaseDownloading)
	}
	c.seq++
	token := c.seq
	ctx, cancel := context.WithCancel(ctx)
	prev := c.download
	c.download = attempt{token: token, cancel: cancel}
	if c.state.Phase == PhaseIdle {
		c.state.URL = videoURL
	}
	c.state.Phase = PhaseDownloading
	c.state.ErrorMessage = ""
	c.downloadState = DownloadRequesting
	c.downloadProgress = Progress{Stage: StageRequesting}
	c.serverDriven = false
	c.notify()
	c.mu.Unlock()

	prev.release()

	if c.opts.ProgressStream {
		go c.followServerProgress(ctx, token, videoURL)
	}

	c.logf("Requesting download of %s\n", videoURL)
	payload, err := c.backend.Download(ctx, videoURL)
	if err != nil {
		return nil, c.failDownload(token, fmt.Errorf("requesting download: %w", err))
	}
	defer payload.Body.Close()

	c.mu.Lock()
	if c.download.token == token && c.downloadState == DownloadRequesting {
		c.downloadState = DownloadTransferring
		c.notify()
	}
	c.mu.Unlock()

	reader := &progressReader{
		r:     payload.Body,
		total: payload.Size,
		report: func(received, total int64) {
			c.onTransfer(token, received, total)
		},
	}
	artifact, err := c.saver.Save(ctx, title, payload.ContentType, reader)
	if err != nil {
		return nil, c.failDownload(token, err)
	}

	return c.completeDownload(token, artifact)
}

// Close aborts in-flight work and stops every timer. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	analysis, download := c.analysis, c.download
	c.analysis.ticker = nil
	c.download.ticker = nil
	c.mu.Unlock()

	analysis.release()
	download.release()
}

// enter moves the current analysis attempt into phase and relabels its progress
func (c *Controller) enter(token uint64, phase Phase, stage Stage, mutate func(*WorkflowState)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.analysis.token != token {
		return ErrSuperseded
	}
	if !isValidTransition(c.state.Phase, phase) {
		return fmt.Errorf("invalid transition: %s -> %s", c.state.Phase, phase)
	}

	c.state.Phase = phase
	if mutate != nil {
		mutate(&c.state)
	}
	c.analysisProgress = c.analysisProgress.Advance(c.analysisProgress.Percent, stage)
	c.notify()
	return nil
}

func (c *Controller) tickAnalysis(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.analysis.token != token || !c.state.Phase.analyzing() {
		return
	}
	next := stepToward(c.analysisProgress.Percent, c.opts.TickStep, c.opts.AnalysisCeiling)
	if next == c.analysisProgress.Percent {
		return
	}
	c.analysisProgress = c.analysisProgress.Advance(next, StageNone)
	c.notify()
}

func (c *Controller) completeAnalysis(token uint64, summary string) (*Analysis, error) {
	c.mu.Lock()
	if c.analysis.token != token || !c.state.Phase.analyzing() {
		c.mu.Unlock()
		return nil, ErrSuperseded
	}

	c.state.Phase = PhaseReady
	c.state.Summary = summary
	c.analysisProgress = Progress{Percent: 100, Stage: StageDone}
	ticker := c.detachAnalysis()
	c.notify()

	result := &Analysis{
		URL:          c.state.URL,
		Info:         *c.state.Info,
		Transcript:   c.state.Transcript,
		NoTranscript: c.state.NoTranscript,
		Summary:      summary,
	}
	c.mu.Unlock()

	ticker.Stop()
	return result, nil
}

func (c *Controller) failAnalysis(token uint64, err error) error {
	c.mu.Lock()
	if c.analysis.token != token || !c.state.Phase.analyzing() {
		c.mu.Unlock()
		return ErrSuperseded
	}

	c.state.Phase = PhaseFailed
	c.state.ErrorMessage = UserMessage(err, c.opts.AnalysisFailureMessage)
	c.analysisProgress = Progress{}
	ticker := c.detachAnalysis()
	c.notify()
	c.mu.Unlock()

	ticker.Stop()
	c.logf("Analysis failed: %v\n", err)
	return err
}

// detachAnalysis ends the analysis attempt's context and hands back its ticker for stopping
func (c *Controller) detachAnalysis() *Ticker {
	ticker := c.analysis.ticker
	c.analysis.ticker = nil
	if c.analysis.cancel != nil {
		c.analysis.cancel()
		c.analysis.cancel = nil
	}
	return ticker
}

func (c *Controller) onTransfer(token uint64, received, total int64) {
	raw := RawPercent(received, total)
	if raw < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.download.token != token || c.downloadState != DownloadTransferring || c.serverDriven {
		return
	}

	mapped := MapTransfer(raw)
	before := c.downloadProgress
	c.downloadProgress = c.downloadProgress.Advance(mapped.Percent, mapped.Stage)

	// no byte-level signal exists for the merge, so simulate it from here on
	if raw >= MergeThreshold && c.download.ticker == nil {
		c.download.ticker = StartTicker(c.opts.MergeInterval, func() { c.tickMerge(token) })
	}

	if math.Floor(before.Percent) != math.Floor(c.downloadProgress.Percent) || before.Stage != c.downloadProgress.Stage {
		c.notify()
	}
}

func (c *Controller) tickMerge(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.download.token != token || c.downloadState != DownloadTransferring || c.serverDriven {
		return
	}
	next := stepToward(c.downloadProgress.Percent, c.opts.MergeStep, c.opts.MergeCeiling)
	if next == c.downloadProgress.Percent {
		return
	}
	c.downloadProgress = c.downloadProgress.Advance(next, StageMerging)
	c.notify()
}

// followServerProgress consumes the server-side progress stream for one download attempt
func (c *Controller) followServerProgress(ctx context.Context, token uint64, videoURL string) {
	events, err := c.backend.DownloadProgress(ctx, videoURL)
	if err != nil {
		if ctx.Err() == nil {
			c.logf("Progress stream unavailable, estimating instead: %v\n", err)
		}
		return
	}

	for event := range events {
		c.onServerProgress(token, event)
	}
}

func (c *Controller) onServerProgress(token uint64, event ServerProgress) {
	c.mu.Lock()
	if c.download.token != token || (c.downloadState != DownloadRequesting && c.downloadState != DownloadTransferring) {
		c.mu.Unlock()
		return
	}

	// real progress wins over the simulation for the rest of the attempt
	c.serverDriven = true
	ticker := c.download.ticker
	c.download.ticker = nil

	percent := math.Min(event.Progress, c.opts.MergeCeiling)
	c.downloadProgress = c.downloadProgress.Advance(percent, event.Stage())
	c.notify()
	c.mu.Unlock()

	ticker.Stop()
}

func (c *Controller) completeDownload(token uint64, artifact *Artifact) (*Artifact, error) {
	c.mu.Lock()
	if c.download.token != token || c.downloadState != DownloadTransferring {
		c.mu.Unlock()
		// a newer attempt owns the workflow now
		cleanupFiles(artifact.Path)
		return nil, ErrSuperseded
	}

	c.downloadState = DownloadCompleted
	c.downloadProgress = Progress{Percent: 100, Stage: StageComplete}
	c.state.Phase = PhaseDownloadDone
	ticker := c.detachDownload()
	c.notify()
	c.mu.Unlock()

	ticker.Stop()
	c.logf("Saved %s (%d bytes)\n", artifact.Path, artifact.Size)
	return artifact, nil
}

func (c *Controller) failDownload(token uint64, err error) error {
	c.mu.Lock()
	if c.download.token != token || (c.downloadState != DownloadRequesting && c.downloadState != DownloadTransferring) {
		c.mu.Unlock()
		return ErrSuperseded
	}

	c.downloadState = DownloadFailed
	c.state.Phase = PhaseFailed
	c.state.ErrorMessage = UserMessage(err, c.opts.DownloadFailureMessage)
	ticker := c.detachDownload()
	c.notify()
	c.mu.Unlock()

	ticker.Stop()
	c.logf("Download failed: %v\n", err)
	return err
}

// detachDownload ends the download attempt's context and hands back its ticker for stopping
func (c *Controller) detachDownload() *Ticker {
	ticker := c.download.ticker
	c.download.ticker = nil
	if c.download.cancel != nil {
		c.download.cancel()
		c.download.cancel = nil
	}
	return ticker
}

func (c *Controller) notify() {
	if c.observer != nil {
		c.observer(c.snapshotLocked())
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	state := c.state
	if state.Info != nil {
		info := *state.Info
		state.Info = &info
	}
	return Snapshot{
		Workflow:      state,
		Analysis:      c.analysisProgress,
		Download:      c.downloadProgress,
		DownloadState: c.downloadState,
	}
}

// mergeOptions overlays the non-zero fields of override onto base
func mergeOptions(base, override ControllerOptions) ControllerOptions {
	if override.TickInterval > 0 {
		base.TickInterval = override.TickInterval
	}
	if override.TickStep > 0 {
		base.TickStep = override.TickStep
	}
	if override.AnalysisCeiling > 0 && override.AnalysisCeiling < 100 {
		base.AnalysisCeiling = override.AnalysisCeiling
	}
	if override.MergeInterval > 0 {
		base.MergeInterval = override.MergeInterval
	}
	if override.MergeStep > 0 {
		base.MergeStep = override.MergeStep
	}
	if override.MergeCeiling > 0 && override.MergeCeiling < 100 {
		base.MergeCeiling = override.MergeCeiling
	}
	base.ProgressStream = override.ProgressStream
	if override.NoTranscriptSentinel != "" {
		base.NoTranscriptSentinel = override.NoTranscriptSentinel
	}
	if override.AnalysisFailureMessage != "" {
		base.AnalysisFailureMessage = override.AnalysisFailureMessage
	}
	if override.DownloadFailureMessage != "" {
		base.DownloadFailureMessage = override.DownloadFailureMessage
	}
	return base
}
