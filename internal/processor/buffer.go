package processor

import (
	"fmt"
	"math"
)

// AudioBuffer holds mono float samples and is immutable after construction,
// per the Data Model: every sample lies in [-1, 1] once normalized, and
// NaN/Inf are rejected at construction rather than propagated.
type AudioBuffer struct {
	samples    []float64
	sampleRate float64
}

// NewAudioBuffer constructs an AudioBuffer, rejecting empty, non-finite, or
// non-positive-sample-rate input with InvalidInput.
func NewAudioBuffer(samples []float64, sampleRate float64) (*AudioBuffer, error) {
	if len(samples) == 0 {
		return nil, NewAlignError(InvalidInput, "samples must not be empty")
	}
	if sampleRate <= 0 {
		return nil, NewAlignError(InvalidInput, "sample_rate must be positive")
	}
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, NewAlignError(InvalidInput, fmt.Sprintf("sample at index %d is not finite", i))
		}
	}
	cp := make([]float64, len(samples))
	copy(cp, samples)
	return &AudioBuffer{samples: cp, sampleRate: sampleRate}, nil
}

// Samples returns the buffer's mono samples. Callers must not mutate the
// returned slice; it aliases the buffer's internal storage.
func (b *AudioBuffer) Samples() []float64 { return b.samples }

// SampleRate returns the buffer's sample rate in Hz.
func (b *AudioBuffer) SampleRate() float64 { return b.sampleRate }

// Len returns the number of samples.
func (b *AudioBuffer) Len() int { return len(b.samples) }

// DurationSeconds returns len(samples)/sample_rate.
func (b *AudioBuffer) DurationSeconds() float64 {
	return float64(len(b.samples)) / b.sampleRate
}

// Preprocess applies, in order, an optional DC-blocking high-pass, a
// peak-normalize pass, and a noise gate, per §4.1. It is a pure function of
// (b, cfg): output length equals input length and order is preserved.
func Preprocess(b *AudioBuffer, cfg *Config) (*AudioBuffer, error) {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)

	if cfg.EnableHighPassFilter {
		dcBlockHighPass(out, b.sampleRate, 20.0)
	}

	peak := 0.0
	for _, s := range out {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak >= 1e-6 {
		inv := 1.0 / peak
		for i := range out {
			out[i] *= inv
		}
	}
	// else: signal is considered silent; InsufficientData is raised later
	// by the extractor, per §4.1.

	if cfg.EnableNoiseGate {
		applyNoiseGate(out, b.sampleRate, cfg.NoiseGateDB)
	}

	return &AudioBuffer{samples: out, sampleRate: b.sampleRate}, nil
}

// dcBlockHighPass applies a first-order DC-blocking filter in place, cutoff
// near the given frequency (Hz): y[n] = x[n] - x[n-1] + r*y[n-1], with r
// derived from the cutoff so low frequencies are attenuated while everything
// above the knee passes through near-unity gain.
func dcBlockHighPass(x []float64, sampleRate, cutoffHz float64) {
	r := 1.0 - (2.0 * math.Pi * cutoffHz / sampleRate)
	if r < 0 {
		r = 0
	}
	var prevX, prevY float64
	for i, xn := range x {
		yn := xn - prevX + r*prevY
		x[i] = yn
		prevX = xn
		prevY = yn
	}
}

// applyNoiseGate zeroes 50ms windows whose RMS in dB falls below gateDB.
func applyNoiseGate(x []float64, sampleRate, gateDB float64) {
	windowLen := int(0.05 * sampleRate)
	if windowLen < 1 {
		windowLen = 1
	}
	for start := 0; start < len(x); start += windowLen {
		end := start + windowLen
		if end > len(x) {
			end = len(x)
		}
		sumSq := 0.0
		for i := start; i < end; i++ {
			sumSq += x[i] * x[i]
		}
		rms := math.Sqrt(sumSq / float64(end-start))
		if linearToDB(rms) < gateDB {
			for i := start; i < end; i++ {
				x[i] = 0
			}
		}
	}
}
