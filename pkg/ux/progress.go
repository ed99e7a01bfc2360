// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressTracker renders a spinner line on terminals and plain lines elsewhere.
type ProgressTracker struct {
	writer         io.Writer
	isTTY          bool
	spinnerChars   []string
	spinnerIndex   int
	lastLineLength int
	startTime      time.Time
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return &ProgressTracker{
		writer:       writer,
		isTTY:        IsTerminal(writer),
		spinnerChars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		startTime:    time.Now(),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// UpdateStep replaces the current spinner line. Non-terminals get one line per call.
func (pt *ProgressTracker) UpdateStep(message string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.isTTY {
		pt.clearLine()
		fmt.Fprintf(pt.writer, "%s %s", pt.spinner(), message)
		pt.lastLineLength = len(message) + 2
		return
	}
	fmt.Fprintf(pt.writer, "%s\n", message)
}

// Done clears the spinner line and prints a completion mark.
func (pt *ProgressTracker) Done(message string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.isTTY {
		pt.clearLine()
	}
	fmt.Fprintf(pt.writer, "✓ %s (%.1fs)\n", message, time.Since(pt.startTime).Seconds())
	pt.startTime = time.Now()
}

func (pt *ProgressTracker) spinner() string {
	char := pt.spinnerChars[pt.spinnerIndex]
	pt.spinnerIndex = (pt.spinnerIndex + 1) % len(pt.spinnerChars)
	return char
}

func (pt *ProgressTracker) clearLine() {
	if pt.lastLineLength > 0 {
		fmt.Fprint(pt.writer, "\r")
		fmt.Fprint(pt.writer, strings.Repeat(" ", pt.lastLineLength))
		fmt.Fprint(pt.writer, "\r")
		pt.lastLineLength = 0
	}
}

// CreateProgressBar creates a progress bar for a task, or nil when not on a terminal.
func (pt *ProgressTracker) CreateProgressBar(task string, total int) *progressbar.ProgressBar {
	if !pt.isTTY {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(pt.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", task)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
