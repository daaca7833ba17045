// Package ui renders pipeline progress in the terminal.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/services"
)

// Init toggles colored output.
func Init(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// RunView shows a progress bar while PDF pages are converted and a spinner for
// everything else, including the indeterminate analysis phase.
type RunView struct {
	bar      *progressbar.ProgressBar
	barFile  int
	spinner  *spinner.Spinner
	spinning bool
}

func NewRunView() *RunView {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	return &RunView{spinner: s, barFile: -1}
}

// Update is an Orchestrator subscriber.
func (v *RunView) Update(snap services.Snapshot) {
	if !snap.Loading {
		v.Close()
		return
	}

	if d := snap.Detail; d != nil && d.Stage == models.StageConvertingPDF && d.TotalPages > 0 {
		v.stopSpinner()
		if v.bar == nil || v.barFile != d.FileIndex {
			v.finishBar()
			v.bar = newPageBar(int64(d.TotalPages), d.Prefix()+"Converting PDF")
			v.barFile = d.FileIndex
		}
		_ = v.bar.Set(d.CurrentPage)
		return
	}

	v.finishBar()
	v.spinner.Lock()
	v.spinner.Suffix = " " + snap.Progress
	v.spinner.Unlock()
	if !v.spinning {
		v.spinner.Start()
		v.spinning = true
	}
}

// Close stops any running indicator.
func (v *RunView) Close() {
	v.finishBar()
	v.stopSpinner()
}

func (v *RunView) finishBar() {
	if v.bar != nil {
		_ = v.bar.Finish()
		v.bar = nil
		v.barFile = -1
	}
}

func (v *RunView) stopSpinner() {
	if v.spinning {
		v.spinner.Stop()
		v.spinning = false
	}
}

func newPageBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Error displays an error message to stderr.
func Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning displays a non-fatal notice.
func Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "! %s\n", fmt.Sprintf(format, args...))
}

// Success displays a success message.
func Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "✓ %s\n", fmt.Sprintf(format, args...))
}
