package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// ProgressIndicator reports per-file validation results
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	passed  int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Validating %d specification file(s):\n", p.total)
}

// Step displays [N/Total] filename with a pass or fail marker.
func (p *ProgressIndicator) Step(filename string, ok bool) {
	p.current++
	mark := color.RedString("✗")
	if ok {
		p.passed++
		mark = color.GreenString("✓")
	}
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, filepath.Base(filename))
	fmt.Fprintf(p.writer, "%s %s\n", color.CyanString(line), mark)
}

// Passed returns how many steps reported ok.
func (p *ProgressIndicator) Passed() int {
	return p.passed
}

// Complete displays the pass count.
func (p *ProgressIndicator) Complete() {
	failed := p.current - p.passed
	if failed == 0 {
		Success(p.writer, "%d of %d specifications valid", p.passed, p.total)
		return
	}
	fmt.Fprintf(p.writer, "%s %d of %d specifications valid, %d with findings\n",
		color.YellowString("!"), p.passed, p.total, failed)
}
