package processor

import (
	"math"
	"sort"
)

// DebugLog is gated behind the CLI's --debug flag, wired from
// cmd/jivesync/main.go exactly as the teacher wires processor.DebugLog in
// its own processing pipeline. Nil by default (silent).
var DebugLog func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLog != nil {
		DebugLog(format, args...)
	}
}

// AlignmentResult is the engine's output record, immutable once produced.
type AlignmentResult struct {
	OffsetSamples      int64
	Confidence         float64
	PeakCorrelation    float64
	SecondaryPeakRatio float64
	SNREstimateDB      float64
	NoiseFloorDB       float64
	Method             string
	Drift              DriftInfo
	Err                *AlignError
}

// IsValid reports §4.4's validity rule: confidence >= threshold and the
// peak is not pinned to the search boundary.
func (r *AlignmentResult) IsValid(cfg *Config) bool {
	return r.Err == nil && r.Confidence >= cfg.ConfidenceThreshold
}

// Align implements the public library entry point of §6: validate inputs,
// preprocess both buffers, extract features, correlate, analyze the peak,
// optionally detect/correct drift, and package the result. Progress is
// emitted through the Loading/Preprocessing/Analyzing/Correlating/
// Finalizing stages of §4.6.
func Align(refSamples, tgtSamples []float64, sampleRate float64, method Method, cfg *Config, progress ProgressFunc, cancel CancelFunc) *AlignmentResult {
	emitter := newProgressEmitter(progress, cancel)
	emitter.emit(StageLoading, 0, "validating input")

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := ValidateConfig(cfg); err != nil {
		return errResult(method, toAlignError(err))
	}
	clampConfig(cfg)

	if err := validateAlignInputs(refSamples, tgtSamples); err != nil {
		return errResult(method, err)
	}
	emitter.emit(StageLoading, 1, "input validated")

	if isCancelled(cancel) {
		return errResult(method, cancelledError())
	}

	refBuf, err := NewAudioBuffer(refSamples, sampleRate)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	tgtBuf, err := NewAudioBuffer(tgtSamples, sampleRate)
	if err != nil {
		return errResult(method, toAlignError(err))
	}

	emitter.emit(StagePreprocessing, 0, "preprocessing reference")
	refPre, err := Preprocess(refBuf, cfg)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	emitter.emit(StagePreprocessing, 0.5, "preprocessing target")
	tgtPre, err := Preprocess(tgtBuf, cfg)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	emitter.emit(StagePreprocessing, 1, "preprocessing complete")

	if isCancelled(cancel) {
		return errResult(method, cancelledError())
	}

	var result *AlignmentResult
	if method == MethodHybrid {
		result = alignHybrid(refPre, tgtPre, cfg, emitter, cancel)
	} else {
		result = alignSingleMethod(refPre, tgtPre, method, cfg, emitter, cancel)
	}
	if result.Err != nil {
		return result
	}

	if cfg.EnableDriftCorrection && method != MethodHybrid {
		emitter.emit(StageFinalizing, 0.2, "checking drift")
		result = applyDriftCorrection(refPre, tgtPre, method, cfg, result, emitter, cancel)
	}

	emitter.emit(StageFinalizing, 1, "done")
	debugLog("align: method=%s offset=%d confidence=%.3f", result.Method, result.OffsetSamples, result.Confidence)
	return result
}

func validateAlignInputs(ref, tgt []float64) error {
	if len(ref) == 0 || len(tgt) == 0 {
		return NewAlignError(InvalidInput, "reference and target samples must not be empty")
	}
	return nil
}

// alignSingleMethod runs the sequential C1-C4 pipeline for one concrete
// feature method.
func alignSingleMethod(refPre, tgtPre *AudioBuffer, method Method, cfg *Config, emitter *progressEmitter, cancel CancelFunc) *AlignmentResult {
	emitter.emit(StageAnalyzing, 0, "extracting reference features")
	refFeat, err := ExtractFeatures(refPre, method, cfg, cancel)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	emitter.emit(StageAnalyzing, 0.5, "extracting target features")
	tgtFeat, err := ExtractFeatures(tgtPre, method, cfg, cancel)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	emitter.emit(StageAnalyzing, 1, "features extracted")

	emitter.emit(StageCorrelating, 0, "correlating")
	series, err := Correlate(refFeat, tgtFeat, cfg, cancel)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	peak, err := AnalyzePeak(series, cfg)
	if err != nil {
		return errResult(method, toAlignError(err))
	}
	emitter.emit(StageCorrelating, 1, "correlation complete")

	if peak.PinnedToBoundary {
		return errResult(method, NewAlignError(InsufficientData, "best peak pinned to search boundary"))
	}

	return &AlignmentResult{
		OffsetSamples:      peak.OffsetSamples,
		Confidence:         peak.Confidence,
		PeakCorrelation:    peak.PeakCorrelation,
		SecondaryPeakRatio: peak.SecondaryPeakRatio,
		SNREstimateDB:      peak.SNREstimateDB,
		NoiseFloorDB:       peak.NoiseFloorDB,
		Method:             method.String(),
	}
}

type hybridCandidate struct {
	method     Method
	offset     int64
	confidence float64
	result     *AlignmentResult
}

// alignHybrid implements §4.6's Hybrid method: run flux, chroma, and MFCC
// (skipping chroma if the reference is shorter than chroma's minimum),
// combine by confidence-weighted median of offsets, and report
// peak_correlation/SNR from whichever constituent's offset is closest to the
// combined result.
func alignHybrid(refPre, tgtPre *AudioBuffer, cfg *Config, emitter *progressEmitter, cancel CancelFunc) *AlignmentResult {
	methods := []Method{MethodSpectralFlux, MethodMFCC}
	chromaMin := MinAudioLength(MethodChroma, refPre.SampleRate())
	if int64(refPre.Len()) >= chromaMin {
		methods = append(methods, MethodChroma)
	}

	var candidates []hybridCandidate
	for i, m := range methods {
		emitter.emit(StageAnalyzing, float64(i)/float64(len(methods)), "hybrid: "+m.String())
		r := alignSingleMethod(refPre, tgtPre, m, cfg, emitter, cancel)
		if r.Err != nil {
			debugLog("hybrid: method %s failed: %v", m, r.Err)
			continue
		}
		candidates = append(candidates, hybridCandidate{method: m, offset: r.OffsetSamples, confidence: r.Confidence, result: r})
	}

	if len(candidates) == 0 {
		return errResult(MethodHybrid, NewAlignError(InsufficientData, "all hybrid constituent methods failed"))
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].offset < candidates[j].offset })

	totalWeight := 0.0
	for _, c := range candidates {
		totalWeight += c.confidence
	}
	if totalWeight <= 0 {
		totalWeight = float64(len(candidates))
		for i := range candidates {
			candidates[i].confidence = 1
		}
	}

	cumulative := 0.0
	combinedOffset := candidates[len(candidates)-1].offset
	for _, c := range candidates {
		cumulative += c.confidence / totalWeight
		if cumulative >= 0.5 {
			combinedOffset = c.offset
			break
		}
	}

	weightedConfidence := 0.0
	for _, c := range candidates {
		weightedConfidence += c.confidence * (c.confidence / totalWeight)
	}

	closest := candidates[0]
	bestDist := math.MaxFloat64
	for _, c := range candidates {
		d := math.Abs(float64(c.offset - combinedOffset))
		if d < bestDist {
			bestDist = d
			closest = c
		}
	}

	return &AlignmentResult{
		OffsetSamples:      combinedOffset,
		Confidence:         clamp(weightedConfidence, 0, 1),
		PeakCorrelation:    closest.result.PeakCorrelation,
		SecondaryPeakRatio: closest.result.SecondaryPeakRatio,
		SNREstimateDB:      closest.result.SNREstimateDB,
		NoiseFloorDB:       closest.result.NoiseFloorDB,
		Method:             MethodHybrid.String(),
	}
}

// applyDriftCorrection implements §4.5's orchestrator-level integration:
// detect drift from the already-computed alignment, and if detected,
// resample the target and re-run the final alignment exactly once.
func applyDriftCorrection(refPre, tgtPre *AudioBuffer, method Method, cfg *Config, result *AlignmentResult, emitter *progressEmitter, cancel CancelFunc) *AlignmentResult {
	refFeat, err := ExtractFeatures(refPre, method, cfg, cancel)
	if err != nil {
		return result
	}
	tgtFeat, err := ExtractFeatures(tgtPre, method, cfg, cancel)
	if err != nil {
		return result
	}
	globalOffsetFrames := int(result.OffsetSamples / int64(refFeat.HopSamples))

	drift, err := DetectDrift(refFeat, tgtFeat, globalOffsetFrames, cfg, cancel)
	if err != nil || drift == nil {
		result.Drift = DriftInfo{}
		return result
	}
	result.Drift = *drift
	if !drift.Detected {
		return result
	}

	factor := 1 + drift.PPM*1e-6
	resampled := ResampleLinear(tgtPre.Samples(), factor)
	tgtResampled, err := NewAudioBuffer(resampled, tgtPre.SampleRate())
	if err != nil {
		return result
	}

	corrected := alignSingleMethod(refPre, tgtResampled, method, cfg, emitter, cancel)
	if corrected.Err != nil {
		return result
	}
	corrected.Drift = *drift
	corrected.Drift.CorrectionApplied = true
	return corrected
}

func errResult(method Method, err *AlignError) *AlignmentResult {
	return &AlignmentResult{Method: method.String(), Err: err}
}

func toAlignError(err error) *AlignError {
	if ae, ok := err.(*AlignError); ok {
		return ae
	}
	return WrapAlignError(ProcessingFailed, "unexpected error", err)
}

// WireResult is the fixed-layout record described by §6's "Result record
// layout (semantic)" — a C-ABI-shaped encoding for callers that need one,
// without introducing an actual cgo boundary (spec.md's scope is the Go
// library, not an FFI shim). See SPEC_FULL.md's "Wire result record"
// supplement.
type WireResult struct {
	OffsetSamples      int64
	Confidence         float64
	PeakCorrelation    float64
	SecondaryPeakRatio float64
	SNREstimateDB      float64
	NoiseFloorDB       float64
	MethodName         [32]byte
	Error              int32
}

// WireRecord encodes r into the fixed-layout WireResult.
func (r *AlignmentResult) WireRecord() WireResult {
	w := WireResult{
		OffsetSamples:      r.OffsetSamples,
		Confidence:         r.Confidence,
		PeakCorrelation:    r.PeakCorrelation,
		SecondaryPeakRatio: r.SecondaryPeakRatio,
		SNREstimateDB:      r.SNREstimateDB,
		NoiseFloorDB:       r.NoiseFloorDB,
	}
	copy(w.MethodName[:], r.Method)
	if r.Err != nil {
		w.Error = int32(r.Err.Kind)
	}
	return w
}
