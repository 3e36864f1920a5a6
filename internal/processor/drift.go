package processor

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DriftInfo reports the outcome of drift detection, per the Data Model.
type DriftInfo struct {
	Detected          bool
	PPM               float64
	CorrectionApplied bool
	RSquared          float64
}

const (
	driftPPMThreshold = 10.0
	driftRSquaredGate = 0.8
	driftSlackFrames  = 8 // small search-window slack around the global offset
)

// DetectDrift implements §4.5: split the reference into K contiguous
// segments, estimate a local offset per segment against the target (search
// centered on the global offset plus a small slack), then fit a linear
// regression of local offset vs segment center time. Drift is "detected"
// when |ppm| > 10 and R^2 >= 0.8.
func DetectDrift(ref, tgt *FeatureSequence, globalOffsetFrames int, cfg *Config, cancel CancelFunc) (*DriftInfo, error) {
	durationS := float64(ref.Len()*ref.HopSamples) / ref.SourceSampleRate
	k := int(math.Floor(durationS / 30.0))
	if k < 3 {
		k = 3
	}
	segLen := ref.Len() / k
	if segLen < 1 {
		return &DriftInfo{}, nil
	}

	var centerTimes, localOffsets []float64

	for s := 0; s < k; s++ {
		if isCancelled(cancel) {
			return nil, cancelledError()
		}
		segStart := s * segLen
		segEnd := segStart + segLen
		if s == k-1 {
			segEnd = ref.Len()
		}
		if segEnd <= segStart {
			continue
		}

		refSeg := &FeatureSequence{
			Kind:             ref.Kind,
			Frames:           reindexFrames(ref.Frames[segStart:segEnd]),
			HopSamples:       ref.HopSamples,
			SourceSampleRate: ref.SourceSampleRate,
		}

		// Crop the target to a window centered on where this segment should
		// land given the global offset, plus a small slack.
		tgtCenter := segStart + globalOffsetFrames
		tgtStart := tgtCenter - driftSlackFrames
		tgtEnd := segEnd + globalOffsetFrames + driftSlackFrames
		if tgtStart < 0 {
			tgtStart = 0
		}
		if tgtEnd > tgt.Len() {
			tgtEnd = tgt.Len()
		}
		if tgtEnd-tgtStart < 2 {
			continue
		}
		tgtSeg := &FeatureSequence{
			Kind:             tgt.Kind,
			Frames:           reindexFrames(tgt.Frames[tgtStart:tgtEnd]),
			HopSamples:       tgt.HopSamples,
			SourceSampleRate: tgt.SourceSampleRate,
		}

		series, err := Correlate(refSeg, tgtSeg, cfg, cancel)
		if err != nil {
			continue // a single segment's failure doesn't abort drift detection
		}
		peak, err := AnalyzePeak(series, cfg)
		if err != nil {
			continue
		}

		// local offset relative to the reference timeline, in samples
		localOffsetFrames := (tgtStart - segStart) - peak.BestLagFrames
		localOffsetSamples := float64(localOffsetFrames * ref.HopSamples)

		centerFrame := (segStart + segEnd) / 2
		centerTime := float64(centerFrame*ref.HopSamples) / ref.SourceSampleRate

		centerTimes = append(centerTimes, centerTime)
		localOffsets = append(localOffsets, localOffsetSamples)
	}

	if len(centerTimes) < 2 {
		return &DriftInfo{}, nil
	}

	weights := make([]float64, len(centerTimes))
	for i := range weights {
		weights[i] = 1.0
	}
	alpha, beta := stat.LinearRegression(centerTimes, localOffsets, weights, false)
	r2 := stat.RSquared(centerTimes, localOffsets, weights, alpha, beta)

	ppm := (beta / ref.SourceSampleRate) * 1e6
	detected := math.Abs(ppm) > driftPPMThreshold && r2 >= driftRSquaredGate

	return &DriftInfo{Detected: detected, PPM: ppm, RSquared: r2}, nil
}

func reindexFrames(frames []FeatureFrame) []FeatureFrame {
	out := make([]FeatureFrame, len(frames))
	for i, f := range frames {
		f.FrameIndex = i
		out[i] = f
	}
	return out
}

// ResampleLinear resamples samples by the given factor using linear
// interpolation, per §4.5's "linear interpolation is acceptable" policy. A
// factor > 1 compresses (fewer output samples); < 1 stretches.
func ResampleLinear(samples []float64, factor float64) []float64 {
	if factor <= 0 {
		factor = 1
	}
	outLen := int(math.Round(float64(len(samples)) / factor))
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		srcPos := float64(i) * factor
		lo := int(math.Floor(srcPos))
		frac := srcPos - float64(lo)
		hi := lo + 1
		if lo >= len(samples) {
			lo = len(samples) - 1
		}
		if hi >= len(samples) {
			hi = len(samples) - 1
		}
		out[i] = samples[lo]*(1-frac) + samples[hi]*frac
	}
	return out
}
