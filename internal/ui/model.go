// Package ui provides the Bubbletea terminal user interface for jivesync's
// alignment progress, adapted from the teacher's per-file processing queue
// (internal/ui/model.go) to a shared-reference, per-target alignment queue.
package ui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivesync/internal/processor"
)

var debugLog *os.File

func init() {
	debugLog, _ = os.OpenFile("jivesync-ui-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func log(format string, args ...interface{}) {
	if debugLog != nil {
		fmt.Fprintf(debugLog, format+"\n", args...)
	}
}

// TargetStatus represents the alignment state of a single target file.
type TargetStatus int

const (
	StatusQueued TargetStatus = iota
	StatusAligning
	StatusComplete
	StatusError
)

// TargetProgress tracks progress for a single target file being aligned
// against the shared reference.
type TargetProgress struct {
	TargetPath string
	Status     TargetStatus

	Stage      processor.Stage
	StageLabel string

	Progress    float64 // 0.0 to 1.0 across the whole alignment of this target
	StartTime   time.Time
	ElapsedTime time.Duration

	Result *AlignedSummary
	Error  error
}

// AlignedSummary is the subset of processor.AlignmentResult the UI renders.
type AlignedSummary struct {
	OffsetSamples int64
	Confidence    float64
	DriftPPM      float64
	DriftDetected bool
}

// Model is the Bubbletea model for the alignment progress UI.
type Model struct {
	ReferencePath string

	Targets        []TargetProgress
	CurrentIndex   int
	TotalTargets   int
	CompletedCount int
	FailedCount    int

	StartTime time.Time
	Done      bool

	ProgressChan chan tea.Msg

	Width  int
	Height int
}

// NewModel creates a new UI model for aligning targetPaths against reference.
func NewModel(reference string, targetPaths []string) Model {
	targets := make([]TargetProgress, len(targetPaths))
	for i, path := range targetPaths {
		targets[i] = TargetProgress{TargetPath: path, Status: StatusQueued}
	}

	return Model{
		ReferencePath: reference,
		Targets:       targets,
		CurrentIndex:  -1,
		TotalTargets:  len(targetPaths),
		StartTime:     time.Now(),
		ProgressChan:  make(chan tea.Msg, 100),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case AlignProgressMsg:
		if msg.TargetIndex >= 0 && msg.TargetIndex < len(m.Targets) {
			m.Targets[msg.TargetIndex] = updateTargetProgress(m.Targets[msg.TargetIndex], msg)
		}
		return m, waitForProgress(m.ProgressChan)

	case TargetStartMsg:
		log("[UI] target start: index=%d file=%s", msg.TargetIndex, msg.TargetName)
		if msg.TargetIndex >= 0 && msg.TargetIndex < len(m.Targets) {
			m.CurrentIndex = msg.TargetIndex
			m.Targets[m.CurrentIndex].Status = StatusAligning
			m.Targets[m.CurrentIndex].StartTime = time.Now()
		}
		return m, waitForProgress(m.ProgressChan)

	case TargetCompleteMsg:
		log("[UI] target complete: index=%d", msg.TargetIndex)
		if msg.TargetIndex >= 0 && msg.TargetIndex < len(m.Targets) {
			t := &m.Targets[msg.TargetIndex]
			if msg.Result != nil && msg.Result.Err == nil {
				t.Status = StatusComplete
				t.Result = &AlignedSummary{
					OffsetSamples: msg.Result.OffsetSamples,
					Confidence:    msg.Result.Confidence,
					DriftPPM:      msg.Result.Drift.PPM,
					DriftDetected: msg.Result.Drift.Detected,
				}
				m.CompletedCount++
			} else {
				t.Status = StatusError
				if msg.Result != nil && msg.Result.Err != nil {
					t.Error = msg.Result.Err
				}
				m.FailedCount++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		log("[UI] all complete")
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nTargets: %d\nCurrent: %d\n", len(m.Targets), m.CurrentIndex)
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderProcessingView(m)
}

func updateTargetProgress(tp TargetProgress, msg AlignProgressMsg) TargetProgress {
	if msg.Stage != tp.Stage {
		tp.StartTime = time.Now()
	}
	tp.Stage = msg.Stage
	tp.StageLabel = msg.Label
	tp.Progress = msg.Percent
	tp.ElapsedTime = time.Since(tp.StartTime)
	tp.Status = StatusAligning
	return tp
}

func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
