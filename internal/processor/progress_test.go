package processor

import "testing"

func TestStageStringRoundTrip(t *testing.T) {
	stages := []Stage{StageLoading, StagePreprocessing, StageAnalyzing, StageCorrelating, StageFinalizing}
	for _, s := range stages {
		if s.String() == "Unknown" {
			t.Errorf("stage %d rendered as Unknown", s)
		}
	}
}

func TestProgressEmitterMapsFractionIntoStageRange(t *testing.T) {
	var gotPercent float64
	var gotStage Stage
	fn := func(stage Stage, percent float64, label string) {
		gotStage = stage
		gotPercent = percent
	}
	emitter := newProgressEmitter(fn, nil)
	emitter.emit(StageAnalyzing, 0.5, "halfway")
	if gotStage != StageAnalyzing {
		t.Errorf("expected StageAnalyzing, got %v", gotStage)
	}
	lo, hi := StageAnalyzing.stageRange()
	want := lo + 0.5*(hi-lo)
	if gotPercent != want {
		t.Errorf("emit(0.5) = %v, want %v", gotPercent, want)
	}
}

func TestProgressEmitterToleratesNilFunc(t *testing.T) {
	emitter := newProgressEmitter(nil, nil)
	emitter.emit(StageLoading, 1, "should not panic")
}

func TestIsCancelledNilCancelFunc(t *testing.T) {
	if isCancelled(nil) {
		t.Fatal("a nil CancelFunc must never report cancelled")
	}
}

func TestIsCancelledHonorsFunc(t *testing.T) {
	if !isCancelled(func() bool { return true }) {
		t.Fatal("expected isCancelled to reflect the cancel func's return value")
	}
}
