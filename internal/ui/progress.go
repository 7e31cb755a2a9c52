// Package ui draws the console progress of a batch audit.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase is one stage of a batch audit.
type Phase string

const (
	PhaseLoading   Phase = "Loading"
	PhaseAuditing  Phase = "Auditing"
	PhaseReporting Phase = "Reporting"
)

// AuditPhases is the standard phase order of the audit command.
func AuditPhases() []Phase {
	return []Phase{PhaseLoading, PhaseAuditing, PhaseReporting}
}

// ProgressBar wraps the progressbar library with our styling.
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase string
	total int
}

// NewProgressBar creates a bar for phase on stdout.
func NewProgressBar(phase Phase, total int) *ProgressBar {
	return NewProgressBarWithOutput(phase, total, os.Stdout)
}

// NewProgressBarWithOutput creates a bar writing to output.
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
	)

	return &ProgressBar{bar: bar, phase: string(phase), total: total}
}

func discardBar(phase Phase, total int) *ProgressBar {
	return &ProgressBar{
		bar:   progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard)),
		phase: string(phase),
		total: total,
	}
}

// Increment advances the bar by one file.
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe shows the file currently being processed.
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Phase returns the phase the bar belongs to.
func (pb *ProgressBar) Phase() string {
	return pb.phase
}

// Pipeline moves through a fixed list of phases, one bar per phase.
type Pipeline struct {
	phases   []Phase
	current  int
	bar      *ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a pipeline writing to stdout.
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a pipeline writing to output.
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{phases: phases, current: -1, output: output}
}

// Disable silences every bar, e.g. in verbose mode where log lines would
// interleave with the bar.
func (p *Pipeline) Disable() {
	p.disabled = true
}

// NextPhase finishes the current bar and starts the next phase. It returns
// nil once all phases are done.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		p.bar = nil
		return nil
	}

	phase := p.phases[p.current]
	if p.disabled {
		p.bar = discardBar(phase, total)
	} else {
		p.bar = NewProgressBarWithOutput(phase, total, p.output)
	}
	return p.bar
}

// Finish completes the current phase.
func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// PrintSummary prints a closing line unless the pipeline is disabled.
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}
