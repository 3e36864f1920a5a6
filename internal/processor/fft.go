package processor

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fftPlan wraps a gonum real-FFT for a fixed window size, grounded on the
// same "windowed frame -> FFT -> magnitude spectrum" shape jivefire's
// internal/audio/fft.go and haustorium's spectral-analysis package build on
// top of gonum.org/v1/gonum/dsp/fourier — see SPEC_FULL.md's DOMAIN STACK.
type fftPlan struct {
	fft *fourier.FFT
	n   int
}

func newFFTPlan(n int) *fftPlan {
	return &fftPlan{fft: fourier.NewFFT(n), n: n}
}

// magnitudeSpectrum returns |FFT(frame)| for the first n/2+1 bins (the
// non-redundant half of a real-input FFT).
func (p *fftPlan) magnitudeSpectrum(frame []float64) []float64 {
	coeffs := p.fft.Coefficients(nil, frame)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}
	return mags
}

// hannWindow returns an n-point Hann window, grounded on
// auleian-noise-cancellation/backend/window.go's HannWindow.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// applyWindow multiplies src by win element-wise into a new slice.
func applyWindow(src, win []float64) []float64 {
	out := make([]float64, len(src))
	for i := range src {
		out[i] = src[i] * win[i]
	}
	return out
}

// frameAt extracts a window-sized frame from samples starting at start,
// zero-padding past the end of the buffer.
func frameAt(samples []float64, start, windowSize int) []float64 {
	frame := make([]float64, windowSize)
	end := start + windowSize
	if end > len(samples) {
		end = len(samples)
	}
	if start < len(samples) {
		copy(frame, samples[start:end])
	}
	return frame
}

// frameCount returns the number of hop-spaced frames covering n samples with
// the given window/hop, counting only frames that fit entirely within n
// (input shorter than one window yields a single zero-padded frame).
func frameCount(n, windowSize, hopSize int) int {
	if n < windowSize {
		if n <= 0 {
			return 0
		}
		return 1
	}
	return 1 + (n-windowSize)/hopSize
}

// binFrequency returns the center frequency in Hz of FFT bin k for an
// n-point transform at the given sample rate.
func binFrequency(k, n int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(n)
}
