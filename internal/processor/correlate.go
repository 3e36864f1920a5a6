package processor

import "math"

// CorrelationSeries is an ordered sequence of real values indexed by lag in
// frames, symmetric over [-L, +L], normalized to roughly [-1, 1].
type CorrelationSeries struct {
	Values   []float64 // Values[i] corresponds to lag LagMin+i
	LagMin   int
	HopSamples int
}

// ValueAt returns the correlation value at the given lag, or 0 if out of
// range (callers should stay within [LagMin, LagMin+len(Values)-1]).
func (c *CorrelationSeries) ValueAt(lag int) float64 {
	idx := lag - c.LagMin
	if idx < 0 || idx >= len(c.Values) {
		return 0
	}
	return c.Values[idx]
}

// lagBound computes L_max per §4.3: min(max_offset_frames, min(M,N)-1), or
// floor(0.5*min(M,N)) when max_offset_samples is 0 (auto).
func lagBound(m, n int, maxOffsetSamples int64, hopSize int) int {
	minLen := m
	if n < minLen {
		minLen = n
	}
	if maxOffsetSamples == 0 {
		return minLen / 2
	}
	maxOffsetFrames := int(maxOffsetSamples / int64(hopSize))
	if maxOffsetFrames > minLen-1 {
		maxOffsetFrames = minLen - 1
	}
	if maxOffsetFrames < 0 {
		maxOffsetFrames = 0
	}
	return maxOffsetFrames
}

// Correlate cross-correlates reference R and target T of the same kind,
// returning a CorrelationSeries over the symmetric lag range described by
// §4.3. Scalar kinds (flux, energy) use normalized dot-product correlation;
// vector kinds (chroma, MFCC) use mean cosine similarity across overlapping
// frames.
func Correlate(ref, tgt *FeatureSequence, cfg *Config, cancel CancelFunc) (*CorrelationSeries, error) {
	if ref.Kind != tgt.Kind {
		return nil, NewAlignError(InvalidInput, "reference and target feature sequences must share a kind")
	}
	m, n := ref.Len(), tgt.Len()
	lMax := lagBound(m, n, cfg.MaxOffsetSamples, ref.HopSamples)
	if lMax < 1 {
		return nil, NewAlignError(InsufficientData, "feature sequences too short to correlate")
	}

	series := make([]float64, 2*lMax+1)
	scalar := ref.Kind == FeatureSpectralFlux || ref.Kind == FeatureEnergy

	var refScalar, tgtScalar []float64
	if scalar {
		refScalar = ref.scalarSeries()
		tgtScalar = tgt.scalarSeries()
	}

	for li, lag := -lMax, 0; li <= lMax; li, lag = li+1, lag+1 {
		if lag%cancelCheckFrames == 0 && isCancelled(cancel) {
			return nil, cancelledError()
		}
		if scalar {
			series[lag] = scalarCorrelationAt(refScalar, tgtScalar, li)
		} else {
			series[lag] = vectorCorrelationAt(ref.Frames, tgt.Frames, li)
		}
	}

	return &CorrelationSeries{Values: series, LagMin: -lMax, HopSamples: ref.HopSamples}, nil
}

// scalarCorrelationAt computes C(lag) = sum(R[i]*T[i-lag]) / sqrt(sum(R^2)*sum(T^2))
// over the valid overlap window, per §4.3.
func scalarCorrelationAt(ref, tgt []float64, lag int) float64 {
	m, n := len(ref), len(tgt)
	iStart := 0
	if lag > 0 {
		iStart = lag
	}
	iEnd := m
	if n+lag < iEnd {
		iEnd = n + lag
	}
	if iEnd <= iStart {
		return 0
	}

	var dot, sumR2, sumT2 float64
	for i := iStart; i < iEnd; i++ {
		r := ref[i]
		t := tgt[i-lag]
		dot += r * t
		sumR2 += r * r
		sumT2 += t * t
	}
	denom := math.Sqrt(sumR2 * sumT2)
	if denom < 1e-12 {
		return 0
	}
	return dot / denom
}

// vectorCorrelationAt computes the mean cosine similarity across overlapping
// frames at the given lag, per §4.3.
func vectorCorrelationAt(ref, tgt []FeatureFrame, lag int) float64 {
	m, n := len(ref), len(tgt)
	iStart := 0
	if lag > 0 {
		iStart = lag
	}
	iEnd := m
	if n+lag < iEnd {
		iEnd = n + lag
	}
	if iEnd <= iStart {
		return 0
	}

	sum := 0.0
	count := 0
	for i := iStart; i < iEnd; i++ {
		sum += cosineSimilarity(ref[i].Values, tgt[i-lag].Values)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	denom := math.Sqrt(na * nb)
	if denom < 1e-12 {
		return 0
	}
	return dot / denom
}
