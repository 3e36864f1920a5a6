package processor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// FeatureKind identifies the family a FeatureFrame/FeatureSequence belongs
// to, per the Data Model.
type FeatureKind int

const (
	FeatureSpectralFlux FeatureKind = iota
	FeatureChroma
	FeatureEnergy
	FeatureMFCC
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureSpectralFlux:
		return "SpectralFlux"
	case FeatureChroma:
		return "Chroma"
	case FeatureEnergy:
		return "Energy"
	case FeatureMFCC:
		return "MFCC"
	default:
		return "Unknown"
	}
}

// FeatureFrame is one frame of analysis features: values has length 1 for
// flux/energy, 12 for chroma, NumCoeffs for MFCC.
type FeatureFrame struct {
	Kind       FeatureKind
	Values     []float64
	FrameIndex int
	HopSamples int
}

// FeatureSequence is an ordered, contiguous sequence of FeatureFrame of one
// kind. Frame indices start at 0 and increase by 1.
type FeatureSequence struct {
	Kind             FeatureKind
	Frames           []FeatureFrame
	HopSamples       int
	SourceSampleRate float64
}

func (s *FeatureSequence) Len() int { return len(s.Frames) }

// scalarSeries returns the 1-D view of a scalar (flux/energy) sequence.
func (s *FeatureSequence) scalarSeries() []float64 {
	out := make([]float64, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Values[0]
	}
	return out
}

// minAudioLengthSeconds returns the recommended minimum duration for a
// method, per §4.2.
func minAudioLengthSeconds(method Method) float64 {
	switch method {
	case MethodChroma:
		return 4.0
	case MethodMFCC:
		return 3.0
	default:
		return 2.0 // flux, energy; Hybrid checked per-constituent
	}
}

// MinAudioLength returns the minimum sample count for method at sampleRate,
// the library surface's `min_audio_length` entry point (§6).
func MinAudioLength(method Method, sampleRate float64) int64 {
	return int64(math.Ceil(minAudioLengthSeconds(method) * sampleRate))
}

// ExtractFeatures dispatches to the extractor matching method's kind. Hybrid
// is not a single kind; callers extracting for Hybrid must call this once
// per constituent method.
func ExtractFeatures(buf *AudioBuffer, method Method, cfg *Config, cancel CancelFunc) (*FeatureSequence, error) {
	minSamples := MinAudioLength(method, buf.SampleRate())
	if int64(buf.Len()) < minSamples {
		return nil, NewAlignError(InsufficientData,
			"audio shorter than minimum duration for method "+method.String())
	}
	if isSilent(buf.Samples()) {
		return nil, NewAlignError(InsufficientData, "audio is silent")
	}

	switch method {
	case MethodSpectralFlux:
		return extractSpectralFlux(buf, cfg, cancel)
	case MethodChroma:
		return extractChroma(buf, cfg, cancel)
	case MethodEnergy:
		return extractEnergy(buf, cfg, cancel)
	case MethodMFCC:
		return extractMFCC(buf, cfg, cancel)
	default:
		return nil, NewAlignError(InvalidInput, "unsupported feature method")
	}
}

// isSilent reports whether every sample's magnitude falls below the noise
// floor used by Preprocess's peak-normalize pass, matching its own
// definition of "considered silent" (see buffer.go).
func isSilent(samples []float64) bool {
	for _, s := range samples {
		if math.Abs(s) >= 1e-6 {
			return false
		}
	}
	return true
}

const cancelCheckFrames = 1024

// extractSpectralFlux implements §4.2's Spectral Flux extractor: magnitude
// spectrum -> pre-emphasis (alpha=0.97) -> half-wave-rectified flux ->
// median-filter(3) -> unit L2 norm over the sequence.
func extractSpectralFlux(buf *AudioBuffer, cfg *Config, cancel CancelFunc) (*FeatureSequence, error) {
	samples := buf.Samples()
	n := frameCount(len(samples), cfg.WindowSize, cfg.HopSize)
	win := hannWindow(cfg.WindowSize)
	plan := newFFTPlan(cfg.WindowSize)

	raw := make([]float64, n)
	var prevMag []float64
	const alpha = 0.97

	for i := 0; i < n; i++ {
		if i%cancelCheckFrames == 0 && isCancelled(cancel) {
			return nil, cancelledError()
		}
		frame := applyWindow(frameAt(samples, i*cfg.HopSize, cfg.WindowSize), win)
		mag := plan.magnitudeSpectrum(frame)

		flux := 0.0
		if prevMag != nil {
			for k := range mag {
				d := mag[k] - alpha*prevMag[k]
				if d > 0 {
					flux += d
				}
			}
		} else {
			for _, m := range mag {
				flux += m
			}
		}
		raw[i] = flux
		prevMag = mag
	}

	filtered := medianFilter3(raw)
	for i := range filtered {
		if filtered[i] < 0 {
			filtered[i] = 0
		}
	}
	normalizeL2InPlace(filtered)

	return packScalarSequence(FeatureSpectralFlux, filtered, cfg.HopSize, buf.SampleRate()), nil
}

// extractChroma implements §4.2's 12-bin chroma extractor.
func extractChroma(buf *AudioBuffer, cfg *Config, cancel CancelFunc) (*FeatureSequence, error) {
	samples := buf.Samples()
	n := frameCount(len(samples), cfg.WindowSize, cfg.HopSize)
	win := hannWindow(cfg.WindowSize)
	plan := newFFTPlan(cfg.WindowSize)
	sr := buf.SampleRate()

	frames := make([]FeatureFrame, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckFrames == 0 && isCancelled(cancel) {
			return nil, cancelledError()
		}
		frame := applyWindow(frameAt(samples, i*cfg.HopSize, cfg.WindowSize), win)
		mag := plan.magnitudeSpectrum(frame)

		var chroma [12]float64
		strongestBin, strongestMag := 0, 0.0
		for k := 1; k < len(mag); k++ {
			if mag[k] > strongestMag {
				strongestMag = mag[k]
				strongestBin = k
			}
		}
		for k := 1; k < len(mag); k++ {
			f := binFrequency(k, cfg.WindowSize, sr)
			if f <= 0 {
				continue
			}
			pc := int(math.Round(12*math.Log2(f/440.0))) % 12
			if pc < 0 {
				pc += 12
			}
			energy := mag[k]
			if cfg.UseHarmonicWeighting && strongestBin > 0 {
				ratio := float64(k) / float64(strongestBin)
				if math.Abs(ratio-math.Round(ratio)) < 0.02 && ratio >= 1 {
					energy *= 1.5
				}
			}
			chroma[pc] += energy
		}

		values := chroma[:]
		normalizeL2InPlace(values)
		frames[i] = FeatureFrame{Kind: FeatureChroma, Values: append([]float64(nil), values...), FrameIndex: i, HopSamples: cfg.HopSize}
	}

	return &FeatureSequence{Kind: FeatureChroma, Frames: frames, HopSamples: cfg.HopSize, SourceSampleRate: sr}, nil
}

// extractEnergy implements §4.2's short-time RMS energy envelope.
func extractEnergy(buf *AudioBuffer, cfg *Config, cancel CancelFunc) (*FeatureSequence, error) {
	samples := buf.Samples()
	n := frameCount(len(samples), cfg.WindowSize, cfg.HopSize)

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckFrames == 0 && isCancelled(cancel) {
			return nil, cancelledError()
		}
		frame := frameAt(samples, i*cfg.HopSize, cfg.WindowSize)
		sumSq := 0.0
		for _, s := range frame {
			sumSq += s * s
		}
		rms := math.Sqrt(sumSq / float64(len(frame)))
		db := linearToDB(rms)
		if db < -120 {
			db = -120
		}
		raw[i] = db
	}

	smoothed := movingAverage(raw, cfg.SmoothingWindowSize)
	minMaxNormalizeInPlace(smoothed)

	return packScalarSequence(FeatureEnergy, smoothed, cfg.HopSize, buf.SampleRate()), nil
}

// extractMFCC implements §4.2's MFCC extractor: mel filterbank -> log
// energies -> DCT-II -> coefficients 1..NumCoeffs -> cepstral mean
// normalization (CMN) across the sequence.
func extractMFCC(buf *AudioBuffer, cfg *Config, cancel CancelFunc) (*FeatureSequence, error) {
	samples := buf.Samples()
	n := frameCount(len(samples), cfg.WindowSize, cfg.HopSize)
	win := hannWindow(cfg.WindowSize)
	plan := newFFTPlan(cfg.WindowSize)
	sr := buf.SampleRate()

	filterbank := melFilterbank(cfg.NumMelFilters, cfg.WindowSize, sr)

	start := 0
	if !cfg.IncludeC0 {
		start = 1
	}
	numOut := cfg.NumCoeffs
	if cfg.IncludeC0 && numOut < 1 {
		numOut = 1
	}

	raw := make([][]float64, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckFrames == 0 && isCancelled(cancel) {
			return nil, cancelledError()
		}
		frame := applyWindow(frameAt(samples, i*cfg.HopSize, cfg.WindowSize), win)
		mag := plan.magnitudeSpectrum(frame)

		melEnergies := make([]float64, cfg.NumMelFilters)
		for m := 0; m < cfg.NumMelFilters; m++ {
			sum := 0.0
			for k, w := range filterbank[m] {
				sum += w * mag[k]
			}
			melEnergies[m] = math.Log(sum + 1e-10)
		}

		dct := dctII(melEnergies)
		coeffs := make([]float64, numOut)
		for j := 0; j < numOut; j++ {
			idx := start + j
			if idx < len(dct) {
				coeffs[j] = dct[idx]
			}
		}
		raw[i] = coeffs
	}

	cepstralMeanNormalize(raw, numOut)

	frames := make([]FeatureFrame, n)
	for i, c := range raw {
		frames[i] = FeatureFrame{Kind: FeatureMFCC, Values: c, FrameIndex: i, HopSamples: cfg.HopSize}
	}

	return &FeatureSequence{Kind: FeatureMFCC, Frames: frames, HopSamples: cfg.HopSize, SourceSampleRate: sr}, nil
}

func packScalarSequence(kind FeatureKind, values []float64, hop int, sr float64) *FeatureSequence {
	frames := make([]FeatureFrame, len(values))
	for i, v := range values {
		frames[i] = FeatureFrame{Kind: kind, Values: []float64{v}, FrameIndex: i, HopSamples: hop}
	}
	return &FeatureSequence{Kind: kind, Frames: frames, HopSamples: hop, SourceSampleRate: sr}
}

func medianFilter3(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo, mid, hi := x[i], x[i], x[i]
		if i > 0 {
			lo = x[i-1]
		}
		if i < len(x)-1 {
			hi = x[i+1]
		}
		tri := []float64{lo, mid, hi}
		sort.Float64s(tri)
		out[i] = tri[1]
	}
	return out
}

func movingAverage(x []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(x))
	half := window / 2
	for i := range x {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(x) {
			hi = len(x) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func normalizeL2InPlace(x []float64) {
	norm := floats.Norm(x, 2)
	if norm < 1e-12 {
		return
	}
	floats.Scale(1.0/norm, x)
}

func minMaxNormalizeInPlace(x []float64) {
	if len(x) == 0 {
		return
	}
	mn := floats.Min(x)
	mx := floats.Max(x)
	span := mx - mn
	if span < 1e-12 {
		for i := range x {
			x[i] = 0
		}
		return
	}
	for i := range x {
		x[i] = (x[i] - mn) / span
	}
}

// melFilterbank returns numFilters triangular filters spanning 0..Nyquist,
// each a weight vector over FFT bins [0, windowSize/2].
func melFilterbank(numFilters, windowSize int, sampleRate float64) [][]float64 {
	nyquist := sampleRate / 2
	numBins := windowSize/2 + 1

	hzToMel := func(hz float64) float64 { return 2595 * math.Log10(1+hz/700) }
	melToHz := func(mel float64) float64 { return 700 * (math.Pow(10, mel/2595) - 1) }

	lowMel, highMel := hzToMel(0), hzToMel(nyquist)
	melPoints := make([]float64, numFilters+2)
	for i := range melPoints {
		melPoints[i] = lowMel + (highMel-lowMel)*float64(i)/float64(numFilters+1)
	}
	binPoints := make([]int, numFilters+2)
	for i, m := range melPoints {
		hz := melToHz(m)
		binPoints[i] = int(math.Round(hz * float64(windowSize) / sampleRate))
		if binPoints[i] >= numBins {
			binPoints[i] = numBins - 1
		}
	}

	filters := make([][]float64, numFilters)
	for m := 0; m < numFilters; m++ {
		filters[m] = make([]float64, numBins)
		left, center, right := binPoints[m], binPoints[m+1], binPoints[m+2]
		for k := left; k < center && k < numBins; k++ {
			if center > left {
				filters[m][k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k < right && k < numBins; k++ {
			if right > center {
				filters[m][k] = float64(right-k) / float64(right-center)
			}
		}
	}
	return filters
}

// dctII computes the type-II discrete cosine transform of x.
func dctII(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		sum := 0.0
		for i, xi := range x {
			sum += xi * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		out[k] = sum
	}
	return out
}

// cepstralMeanNormalize subtracts the per-coefficient mean across the
// sequence in place, implementing §4.2's CMN step.
func cepstralMeanNormalize(frames [][]float64, numCoeffs int) {
	if len(frames) == 0 {
		return
	}
	means := make([]float64, numCoeffs)
	for _, f := range frames {
		for j := 0; j < numCoeffs && j < len(f); j++ {
			means[j] += f[j]
		}
	}
	for j := range means {
		means[j] /= float64(len(frames))
	}
	for _, f := range frames {
		for j := 0; j < numCoeffs && j < len(f); j++ {
			f[j] -= means[j]
		}
	}
}
