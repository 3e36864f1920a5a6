package processor

import (
	"math"
	"testing"
)

func TestNewAudioBufferRejectsEmpty(t *testing.T) {
	if _, err := NewAudioBuffer(nil, 44100); err == nil {
		t.Fatal("expected error for empty samples")
	}
}

func TestNewAudioBufferRejectsNonPositiveSampleRate(t *testing.T) {
	if _, err := NewAudioBuffer([]float64{0.1, 0.2}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewAudioBuffer([]float64{0.1, 0.2}, -100); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestNewAudioBufferRejectsNonFinite(t *testing.T) {
	if _, err := NewAudioBuffer([]float64{0.1, math.NaN()}, 44100); err == nil {
		t.Fatal("expected error for NaN sample")
	}
	if _, err := NewAudioBuffer([]float64{0.1, math.Inf(1)}, 44100); err == nil {
		t.Fatal("expected error for +Inf sample")
	}
}

func TestNewAudioBufferCopiesInput(t *testing.T) {
	src := []float64{0.1, 0.2, 0.3}
	buf, err := NewAudioBuffer(src, 44100)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 99
	if buf.Samples()[0] == 99 {
		t.Fatal("AudioBuffer must copy its input, not alias it")
	}
}

func TestPreprocessPreservesLength(t *testing.T) {
	samples := sineWave(440, 1, 44100)
	buf, err := NewAudioBuffer(samples, 44100)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Preprocess(buf, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != buf.Len() {
		t.Fatalf("Preprocess changed length: %d -> %d", buf.Len(), out.Len())
	}
}

func TestPreprocessPeakNormalizes(t *testing.T) {
	samples := sineWave(440, 1, 44100) // amplitude 0.5
	buf, _ := NewAudioBuffer(samples, 44100)
	cfg := DefaultConfig()
	cfg.EnableNoiseGate = false
	cfg.EnableHighPassFilter = false
	out, err := Preprocess(buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	peak := 0.0
	for _, s := range out.Samples() {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if math.Abs(peak-1.0) > 1e-6 {
		t.Fatalf("expected peak-normalized amplitude ~1.0, got %v", peak)
	}
}
