package ui

import (
	"github.com/linuxmatters/jivesync/internal/processor"
)

// AlignProgressMsg reports a stage-progress update from the alignment
// engine, adapted from the teacher's Pass/PassName-based ProgressMsg to the
// engine's Stage enum (§4.6).
type AlignProgressMsg struct {
	TargetIndex int
	Stage       processor.Stage
	Percent     float64 // 0.0 to 1.0 across the whole alignment of this target
	Label       string
}

// TargetStartMsg indicates a new target has started aligning against the
// shared reference.
type TargetStartMsg struct {
	TargetIndex int
	TargetName  string
}

// TargetCompleteMsg indicates a target has finished aligning.
type TargetCompleteMsg struct {
	TargetIndex int
	Result      *processor.AlignmentResult
}

// AllCompleteMsg indicates all targets have been aligned.
type AllCompleteMsg struct{}
