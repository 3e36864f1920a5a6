package processor

import (
	"math"
	"testing"
)

func TestLagBoundAutoIsHalfMinLength(t *testing.T) {
	if got := lagBound(100, 80, 0, 64); got != 40 {
		t.Errorf("lagBound auto = %d, want 40", got)
	}
}

func TestLagBoundCapsToExplicitMaxOffset(t *testing.T) {
	got := lagBound(1000, 1000, 640, 64) // 640 samples / 64 hop = 10 frames
	if got != 10 {
		t.Errorf("lagBound explicit = %d, want 10", got)
	}
}

func TestCorrelateRejectsMismatchedKinds(t *testing.T) {
	ref := &FeatureSequence{Kind: FeatureEnergy, Frames: make([]FeatureFrame, 10), HopSamples: 256}
	tgt := &FeatureSequence{Kind: FeatureChroma, Frames: make([]FeatureFrame, 10), HopSamples: 256}
	_, err := Correlate(ref, tgt, DefaultConfig(), nil)
	ae, ok := err.(*AlignError)
	if !ok || ae.Kind != InvalidInput {
		t.Fatalf("expected InvalidInput for mismatched kinds, got %v", err)
	}
}

// TestSelfCorrelationPeaksAtZeroLag is a building block for invariant 2
// (self-alignment): correlating a feature sequence against itself must peak
// at lag 0 with near-unity correlation.
func TestSelfCorrelationPeaksAtZeroLag(t *testing.T) {
	samples := pinkNoise(44100*5, 11)
	buf, err := NewAudioBuffer(samples, 44100)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	seq, err := ExtractFeatures(buf, MethodSpectralFlux, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	series, err := Correlate(seq, seq, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	bestIdx, bestVal := 0, series.Values[0]
	for i, v := range series.Values {
		if v > bestVal {
			bestVal = v
			bestIdx = i
		}
	}
	lag := bestIdx + series.LagMin
	if lag != 0 {
		t.Errorf("expected self-correlation to peak at lag 0, got lag %d", lag)
	}
	if bestVal < 0.95 {
		t.Errorf("expected near-unity self-correlation, got %v", bestVal)
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := []float64{1, 2, 3}
	if got := cosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("cosineSimilarity(a, a) = %v, want 1", got)
	}
}
