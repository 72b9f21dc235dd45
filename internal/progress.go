package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager handles all user interface concerns (progress, verbose output, warnings)
type UIManager interface {
	// Progress bars
	NewProgressBar(total int, description string) ProgressBar
	NewSpinner(description string) ProgressBar

	// Verbose output
	Verbose(format string, args ...any)

	// Status messages
	Printf(format string, args ...any)
	Println(args ...any)
	Warnf(format string, args ...any)
}

// ProgressBar interface abstracts progress bar operations
type ProgressBar interface {
	Set(current int)
	Advance()
	Describe(description string)
	Finish()
}

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	verbose     bool
	quiet       bool
	interactive bool
	out         io.Writer
	errOut      io.Writer
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose:     verbose,
		quiet:       quiet,
		interactive: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		out:         os.Stdout,
		errOut:      os.Stderr,
	}
}

// Progress Bar Methods
func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	if ui.quiet || !ui.interactive {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &VisibleProgressBar{bar: bar}
}

func (ui *StandardUIManager) NewSpinner(description string) ProgressBar {
	if ui.quiet || !ui.interactive {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(-1)}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ui.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &VisibleProgressBar{bar: bar}
}

// Verbose Output Methods
func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose {
		fmt.Fprintf(ui.errOut, format, args...)
	}
}

// Status Message Methods
func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

func (ui *StandardUIManager) Warnf(format string, args ...any) {
	fmt.Fprintf(ui.errOut, "Warning: "+format, args...)
}

// VisibleProgressBar wraps the actual progress bar
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleProgressBar) Set(current int) {
	_ = v.bar.Set(current)
}

func (v *VisibleProgressBar) Advance() {
	_ = v.bar.Add(1)
}

func (v *VisibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

// SilentProgressBar implements a silent progress bar
type SilentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *SilentProgressBar) Set(current int) {
	_ = s.bar.Set(current)
}

func (s *SilentProgressBar) Advance() {
	_ = s.bar.Add(1)
}

func (s *SilentProgressBar) Describe(description string) {
	// Do nothing for silent mode
}

func (s *SilentProgressBar) Finish() {
	_ = s.bar.Finish()
}

// ProgressView mirrors one progress estimate of the controller onto a bar
type ProgressView struct {
	bar   ProgressBar
	pick  func(Snapshot) Progress
	last  int
	stage Stage
}

// NewProgressView creates a view; pick selects which estimate the bar shows
func NewProgressView(bar ProgressBar, pick func(Snapshot) Progress) *ProgressView {
	return &ProgressView{bar: bar, pick: pick, last: -1}
}

// Observe is a controller observer updating the bar when the estimate moves
func (p *ProgressView) Observe(snapshot Snapshot) {
	progress := p.pick(snapshot)
	if progress.Stage != p.stage && progress.Stage != StageNone {
		p.stage = progress.Stage
		p.bar.Describe(progress.Label())
	}
	percent := int(progress.Percent)
	if percent != p.last {
		p.last = percent
		p.bar.Set(percent)
	}
}

// Finish completes the underlying bar
func (p *ProgressView) Finish() {
	p.bar.Finish()
}

// AnalysisProgress picks the analysis estimate from a snapshot
func AnalysisProgress(s Snapshot) Progress { return s.Analysis }

// DownloadProgress picks the download estimate from a snapshot
func DownloadProgress(s Snapshot) Progress { return s.Download }
