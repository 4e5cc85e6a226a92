package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/clumpscan/domain"
)

// ProgressManagerImpl implements the ProgressManager interface
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
	maxValue    int    // Maximum value for progress (set by Initialize)
	stage       string // Stage the current bar belongs to
}

// NewProgressManager creates a new progress manager writing to stderr
func NewProgressManager() domain.ProgressManager {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// IsInteractiveEnvironment reports whether stderr is a terminal and CI is not set
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("CLUMPSCAN_NO_PROGRESS") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Initialize sets up progress tracking with the maximum value
func (pm *ProgressManagerImpl) Initialize(maxValue int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.maxValue = maxValue
}

// Start starts the progress bar
func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.interactive && pm.progressBar == nil {
		pm.progressBar = pm.createProgressBar("Reading documents", pm.maxValue)
	}
}

// Complete marks the progress as completed (finishes the progress bar)
func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.finishLocked()
}

// Update updates the progress
func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar == nil && pm.interactive {
		pm.progressBar = pm.createProgressBar("Reading documents", total)
	}
	if pm.progressBar != nil {
		_ = pm.progressBar.Set(processed)
	}
}

// UpdateStage updates the progress of a detection stage. A new bar is started
// whenever the stage differs from the previous call.
func (pm *ProgressManagerImpl) UpdateStage(stage string, processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.interactive {
		return
	}
	if pm.progressBar == nil || pm.stage != stage {
		pm.finishLocked()
		pm.stage = stage
		pm.progressBar = pm.createProgressBar(fmt.Sprintf("Detecting %s", stage), total)
	}
	_ = pm.progressBar.Set(processed)
}

// SetWriter sets the output writer for progress bars
func (pm *ProgressManagerImpl) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer

	if file, ok := writer.(*os.File); ok {
		pm.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		pm.interactive = false
	}
}

// IsInteractive returns true if progress bars should be shown
func (pm *ProgressManagerImpl) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return pm.interactive
}

// Close cleans up any resources
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.finishLocked()
}

func (pm *ProgressManagerImpl) finishLocked() {
	if pm.progressBar != nil {
		_ = pm.progressBar.Finish()
		pm.progressBar = nil
	}
	pm.stage = ""
}

// createProgressBar creates a new progress bar with consistent styling
func (pm *ProgressManagerImpl) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// NoOpProgressManager discards all progress
type NoOpProgressManager struct{}

// NewNoOpProgressManager creates a progress manager that renders nothing
func NewNoOpProgressManager() domain.ProgressManager { return NoOpProgressManager{} }

func (NoOpProgressManager) Initialize(int) {}
func (NoOpProgressManager) Start() {}
func (NoOpProgressManager) Complete(bool) {}
func (NoOpProgressManager) Update(int, int) {}
func (NoOpProgressManager) UpdateStage(string, int, int) {}
func (NoOpProgressManager) SetWriter(io.Writer) {}
func (NoOpProgressManager) IsInteractive() bool { return false }
func (NoOpProgressManager) Close() {}
