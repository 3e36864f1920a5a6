package processor

import "math"

// sineWave returns a pure tone at freqHz sampled at sampleRate for
// durationS seconds, amplitude 0.5 (leaving headroom so Preprocess's
// peak-normalize pass is exercised rather than a no-op).
func sineWave(freqHz, durationS, sampleRate float64) []float64 {
	n := int(durationS * sampleRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freqHz*float64(i)/sampleRate)
	}
	return out
}

// pinkNoise returns a deterministic pseudo-pink-noise signal (Paul Kellet's
// refined filter over a fixed-seed LCG), used in place of true pink noise
// since the test fixtures only need broadband, non-silent, non-periodic
// material — not a spectrally exact 1/f slope.
func pinkNoise(n int, seed uint64) []float64 {
	var b0, b1, b2, b3, b4, b5, b6 float64
	out := make([]float64, n)
	state := seed
	nextWhite := func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		u := float64(state>>11) / float64(1<<53)
		return u*2 - 1
	}
	for i := range out {
		white := nextWhite()
		b0 = 0.99886*b0 + white*0.0555179
		b1 = 0.99332*b1 + white*0.0750759
		b2 = 0.96900*b2 + white*0.1538520
		b3 = 0.86650*b3 + white*0.3104856
		b4 = 0.55000*b4 + white*0.5329522
		b5 = -0.7616*b5 - white*0.0168980
		pink := b0 + b1 + b2 + b3 + b4 + b5 + b6 + white*0.5362
		b6 = white * 0.115926
		out[i] = pink * 0.11
	}
	return out
}

func silence(n int) []float64 {
	return make([]float64, n)
}

func addNoise(samples []float64, snrDB float64, seed uint64) []float64 {
	var sigPower float64
	for _, s := range samples {
		sigPower += s * s
	}
	sigPower /= float64(len(samples))
	noisePower := sigPower / math.Pow(10, snrDB/10)
	noiseAmp := math.Sqrt(noisePower)

	state := seed
	nextWhite := func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		u := float64(state>>11) / float64(1<<53)
		return u*2 - 1
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s + noiseAmp*nextWhite()
	}
	return out
}

func prependZeros(samples []float64, k int) []float64 {
	out := make([]float64, k+len(samples))
	copy(out[k:], samples)
	return out
}
