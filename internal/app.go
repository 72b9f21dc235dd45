package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// App holds the application state and dependencies
type App struct {
	controller    *Controller
	backend       Backend
	saver         *Saver
	reportManager *ReportManager
	config        *Config
	ui            UIManager

	controllerOptions []ControllerOption

	viewMu sync.Mutex
	view   *ProgressView
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	app := &App{
		backend:       NewHTTPBackend(config.BackendURL, config.RequestTimeout, config.SummaryTimeout, config.Controller.NoTranscriptSentinel),
		saver:         NewSaver(config.DownloadDir, config.DefaultExtension),
		reportManager: NewReportManager(config.ConfigDir, config.Template),
		config:        config,
		ui:            NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	controllerOptions := []ControllerOption{
		WithOptions(config.Controller),
		WithObserver(app.observe),
		WithLogf(app.ui.Verbose),
	}
	app.controller = NewController(app.backend, app.saver, append(controllerOptions, app.controllerOptions...)...)

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithBackend sets a custom backend client
func WithBackend(backend Backend) AppOption {
	return func(a *App) {
		a.backend = backend
	}
}

// WithSaver sets a custom video saver
func WithSaver(saver *Saver) AppOption {
	return func(a *App) {
		a.saver = saver
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithControllerOption passes extra options to the workflow controller
func WithControllerOption(options ...ControllerOption) AppOption {
	return func(a *App) {
		a.controllerOptions = append(a.controllerOptions, options...)
	}
}

// SetReportManager sets a new report manager
func (app *App) SetReportManager(rm *ReportManager) {
	app.reportManager = rm
}

// Snapshot returns the current workflow state
func (app *App) Snapshot() Snapshot {
	return app.controller.Snapshot()
}

// Close aborts in-flight requests and stops all progress timers
func (app *App) Close() {
	app.controller.Close()
}

// observe forwards controller snapshots to the active progress view.
// It runs under the controller lock.
func (app *App) observe(snapshot Snapshot) {
	app.viewMu.Lock()
	defer app.viewMu.Unlock()
	if app.view != nil {
		app.view.Observe(snapshot)
	}
}

// track shows a progress bar for one controller flow until the returned func is called
func (app *App) track(description string, pick func(Snapshot) Progress) func() {
	view := NewProgressView(app.ui.NewProgressBar(100, description), pick)

	app.viewMu.Lock()
	app.view = view
	app.viewMu.Unlock()

	return func() {
		app.viewMu.Lock()
		if app.view == view {
			app.view = nil
		}
		app.viewMu.Unlock()
		view.Finish()
	}
}

// failure attaches the workflow's user-facing message to err
func (app *App) failure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	message := app.controller.Snapshot().Workflow.ErrorMessage
	if message == "" {
		message = UserMessage(err, fallback)
	}
	app.ui.Verbose("%v\n", err)
	return &FailureError{Message: message, Err: err}
}

// Analyze runs the info -> transcript -> summary workflow with a progress bar
func (app *App) Analyze(ctx context.Context, videoURL string) (*Analysis, error) {
	done := app.track("Analyzing video", AnalysisProgress)
	analysis, err := app.controller.Analyze(ctx, videoURL)
	done()

	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, app.failure(err, app.config.Controller.AnalysisFailureMessage)
	}
	return analysis, nil
}

// Report renders the markdown report for a finished analysis
func (app *App) Report(analysis *Analysis) (string, error) {
	report, err := app.reportManager.CreateReport(analysis)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	return report, nil
}

// SummarizeVideo analyzes a video, prints the rendered report and optionally downloads it
func (app *App) SummarizeVideo(ctx context.Context, videoURL string, download bool) error {
	analysis, err := app.Analyze(ctx, videoURL)
	if err != nil {
		return err
	}

	report, err := app.Report(analysis)
	if err != nil {
		return err
	}

	rendered, err := RenderMarkdown(report)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	fmt.Println(rendered)

	if !download {
		return nil
	}

	artifact, err := app.downloadWithProgress(ctx, analysis.URL, analysis.Info.Title)
	if err != nil {
		return err
	}
	app.ui.Printf("Saved video to %s\n", artifact.Path)
	return nil
}

// Metadata fetches video information only
func (app *App) Metadata(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if err := ValidateVideoURL(videoURL); err != nil {
		return nil, err
	}

	spinner := app.ui.NewSpinner("Fetching video info...")
	defer spinner.Finish()

	info, err := app.backend.VideoInfo(ctx, videoURL)
	if err != nil {
		app.ui.Verbose("%v\n", err)
		return nil, &FailureError{Message: UserMessage(err, app.config.Controller.AnalysisFailureMessage), Err: err}
	}
	return info, nil
}

// Transcript fetches the transcript; noTranscript reports the "no captions" answer
func (app *App) Transcript(ctx context.Context, videoURL string) (transcript string, noTranscript bool, err error) {
	if err := ValidateVideoURL(videoURL); err != nil {
		return "", false, err
	}

	spinner := app.ui.NewSpinner("Fetching transcript...")
	defer spinner.Finish()

	transcript, err = app.backend.Transcript(ctx, videoURL)
	if err != nil {
		app.ui.Verbose("%v\n", err)
		return "", false, &FailureError{Message: UserMessage(err, app.config.Controller.AnalysisFailureMessage), Err: err}
	}
	return transcript, IsNoTranscript(transcript, app.config.Controller.NoTranscriptSentinel), nil
}

// DownloadVideo saves the processed video; the title is looked up when empty
func (app *App) DownloadVideo(ctx context.Context, videoURL, title string) (*Artifact, error) {
	if err := ValidateVideoURL(videoURL); err != nil {
		return nil, err
	}

	if title == "" {
		info, err := app.Metadata(ctx, videoURL)
		if err != nil {
			return nil, err
		}
		title = info.Title
		if title == "" {
			title = info.VideoID
		}
	}

	return app.downloadWithProgress(ctx, videoURL, title)
}

func (app *App) downloadWithProgress(ctx context.Context, videoURL, title string) (*Artifact, error) {
	done := app.track("Downloading video", DownloadProgress)
	artifact, err := app.controller.Download(ctx, videoURL, title)
	done()

	if err != nil {
		return nil, app.failure(err, app.config.Controller.DownloadFailureMessage)
	}
	return artifact, nil
}
