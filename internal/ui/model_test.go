package ui

import (
	"testing"

	"github.com/linuxmatters/jivesync/internal/processor"
)

func TestNewModelQueuesAllTargets(t *testing.T) {
	m := NewModel("ref.wav", []string{"a.wav", "b.wav"})
	if m.TotalTargets != 2 || len(m.Targets) != 2 {
		t.Fatalf("expected 2 queued targets, got %+v", m.Targets)
	}
	for _, tp := range m.Targets {
		if tp.Status != StatusQueued {
			t.Errorf("expected StatusQueued, got %v", tp.Status)
		}
	}
}

func TestUpdateTargetCompleteSuccess(t *testing.T) {
	m := NewModel("ref.wav", []string{"a.wav"})
	result := &processor.AlignmentResult{
		OffsetSamples: 128,
		Confidence:    0.9,
		Drift:         processor.DriftInfo{Detected: true, PPM: 42},
	}
	updated, _ := m.Update(TargetCompleteMsg{TargetIndex: 0, Result: result})
	mm := updated.(Model)
	if mm.Targets[0].Status != StatusComplete {
		t.Fatalf("expected StatusComplete, got %v", mm.Targets[0].Status)
	}
	if mm.Targets[0].Result == nil || mm.Targets[0].Result.OffsetSamples != 128 {
		t.Fatalf("expected offset 128 in summary, got %+v", mm.Targets[0].Result)
	}
	if mm.CompletedCount != 1 {
		t.Errorf("expected CompletedCount 1, got %d", mm.CompletedCount)
	}
}

func TestUpdateTargetCompleteFailure(t *testing.T) {
	m := NewModel("ref.wav", []string{"a.wav"})
	result := &processor.AlignmentResult{Err: processor.NewAlignError(processor.InsufficientData, "silent")}
	updated, _ := m.Update(TargetCompleteMsg{TargetIndex: 0, Result: result})
	mm := updated.(Model)
	if mm.Targets[0].Status != StatusError {
		t.Fatalf("expected StatusError, got %v", mm.Targets[0].Status)
	}
	if mm.FailedCount != 1 {
		t.Errorf("expected FailedCount 1, got %d", mm.FailedCount)
	}
}

func TestUpdateAllCompleteSetsDone(t *testing.T) {
	m := NewModel("ref.wav", []string{"a.wav"})
	updated, cmd := m.Update(AllCompleteMsg{})
	mm := updated.(Model)
	if !mm.Done {
		t.Error("expected Done to be set")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
}

func TestUpdateTargetStartSetsAligning(t *testing.T) {
	m := NewModel("ref.wav", []string{"a.wav"})
	updated, _ := m.Update(TargetStartMsg{TargetIndex: 0, TargetName: "a.wav"})
	mm := updated.(Model)
	if mm.Targets[0].Status != StatusAligning {
		t.Fatalf("expected StatusAligning, got %v", mm.Targets[0].Status)
	}
	if mm.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex 0, got %d", mm.CurrentIndex)
	}
}
