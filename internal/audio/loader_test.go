package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/jivesync/internal/processor"
)

func writeTestWAV(t *testing.T, dir, name string, sampleRate int, durationS float64) string {
	t.Helper()
	n := int(float64(sampleRate) * durationS)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}
	buf, err := processor.NewAudioBuffer(samples, float64(sampleRate))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, WriteWAV(buf), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWAV(t, dir, "tone.wav", 44100, 1)
	buf, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if buf.SampleRate() != 44100 {
		t.Errorf("sample rate = %v, want 44100", buf.SampleRate())
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/does-not-exist.wav"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

// TestLoadPairSampleRateMismatch covers scenario S4: a reference at 44100Hz
// paired with a target at 48000Hz must fail with InvalidInput.
func TestLoadPairSampleRateMismatch(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestWAV(t, dir, "ref.wav", 44100, 10)
	tgtPath := writeTestWAV(t, dir, "tgt.wav", 48000, 10)

	_, _, err := LoadPair(refPath, tgtPath)
	if err == nil {
		t.Fatal("expected an error for mismatched sample rates")
	}
	ae, ok := err.(*processor.AlignError)
	if !ok || ae.Kind != processor.InvalidInput {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestLoadPairMatchingSampleRates(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestWAV(t, dir, "ref.wav", 44100, 1)
	tgtPath := writeTestWAV(t, dir, "tgt.wav", 44100, 1)

	ref, tgt, err := LoadPair(refPath, tgtPath)
	if err != nil {
		t.Fatal(err)
	}
	if ref.SampleRate() != tgt.SampleRate() {
		t.Error("expected matching sample rates to load without error")
	}
}
