package logging

import (
	"fmt"
	"sort"

	"github.com/linuxmatters/jivesync/internal/processor"
)

// AlignmentTip represents a single piece of actionable diagnostic advice
// derived from an alignment result, adapted from the teacher's
// RecordingTip/GenerateRecordingTips rule-engine shape (recording_tips.go) to
// alignment-quality diagnostics instead of recording-quality diagnostics.
type AlignmentTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "low_confidence")
}

// MaxAlignmentTips is the maximum number of tips to return.
const MaxAlignmentTips = 5

// GenerateAlignmentTips analyses an alignment result and returns prioritised
// diagnostic suggestions for improving alignment quality.
func GenerateAlignmentTips(r *processor.AlignmentResult, cfg *processor.Config) []AlignmentTip {
	if r == nil {
		return nil
	}
	if cfg == nil {
		cfg = processor.DefaultConfig()
	}

	var tips []AlignmentTip
	fired := make(map[string]bool)

	rules := []func(*processor.AlignmentResult, *processor.Config) *AlignmentTip{
		tipFailed,
		tipLowConfidence,
		tipPinnedBoundary,
		tipWeakSecondaryMargin,
		tipPoorSNR,
		tipDriftDetected,
		tipDriftNotCorrected,
	}

	for _, rule := range rules {
		if tip := rule(r, cfg); tip != nil {
			tips = append(tips, *tip)
			fired[tip.RuleID] = true
		}
	}

	tips = applyTipExclusions(tips, fired)

	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxAlignmentTips {
		tips = tips[:MaxAlignmentTips]
	}

	return tips
}

// applyTipExclusions removes tips that are redundant once a more specific,
// root-cause tip has already fired.
func applyTipExclusions(tips []AlignmentTip, fired map[string]bool) []AlignmentTip {
	var result []AlignmentTip
	for _, t := range tips {
		switch t.RuleID {
		case "low_confidence":
			// A failed run or a boundary-pinned peak already explains the
			// low confidence; don't also report it generically.
			if fired["failed"] || fired["pinned_boundary"] {
				continue
			}
		case "failed":
			// The pinned-boundary tip is the specific explanation of this
			// failure; the generic failure tip adds nothing beside it.
			if fired["pinned_boundary"] {
				continue
			}
		}
		result = append(result, t)
	}
	return result
}

func tipFailed(r *processor.AlignmentResult, _ *processor.Config) *AlignmentTip {
	if r.Err == nil {
		return nil
	}
	return &AlignmentTip{
		Priority: 10,
		RuleID:   "failed",
		Message:  fmt.Sprintf("Alignment failed (%s): %s", r.Err.Kind, r.Err.Message),
	}
}

func tipLowConfidence(r *processor.AlignmentResult, cfg *processor.Config) *AlignmentTip {
	if r.Err != nil || r.Confidence >= cfg.ConfidenceThreshold {
		return nil
	}
	return &AlignmentTip{
		Priority: 8,
		RuleID:   "low_confidence",
		Message:  fmt.Sprintf("Confidence %.2f is below the %.2f threshold - try the Hybrid method or a different feature kind.", r.Confidence, cfg.ConfidenceThreshold),
	}
}

func tipPinnedBoundary(r *processor.AlignmentResult, _ *processor.Config) *AlignmentTip {
	if r.Err == nil || r.Err.Kind != processor.InsufficientData {
		return nil
	}
	// InsufficientData also covers short input, silent audio, and
	// cancellation (see errors.go); only the boundary-pinned peak case
	// gets this specific advice.
	if r.Err.Message != "best peak pinned to search boundary" {
		return nil
	}
	return &AlignmentTip{
		Priority: 9,
		RuleID:   "pinned_boundary",
		Message:  "The best correlation peak sits at the edge of the search window - increase max_offset_samples and retry.",
	}
}

func tipWeakSecondaryMargin(r *processor.AlignmentResult, _ *processor.Config) *AlignmentTip {
	if r.Err != nil || r.SecondaryPeakRatio == 0 || r.SecondaryPeakRatio < 0.85 {
		return nil
	}
	return &AlignmentTip{
		Priority: 6,
		RuleID:   "weak_margin",
		Message:  fmt.Sprintf("The second-best peak is nearly as strong as the best one (ratio %.2f) - the signal may have repetitive content that confuses correlation.", r.SecondaryPeakRatio),
	}
}

func tipPoorSNR(r *processor.AlignmentResult, _ *processor.Config) *AlignmentTip {
	if r.Err != nil || r.SNREstimateDB == 0 || r.SNREstimateDB >= 6.0 {
		return nil
	}
	return &AlignmentTip{
		Priority: 7,
		RuleID:   "poor_snr",
		Message:  fmt.Sprintf("Correlation SNR is only %.1f dB - background noise or silence may be swamping the true peak.", r.SNREstimateDB),
	}
}

func tipDriftDetected(r *processor.AlignmentResult, _ *processor.Config) *AlignmentTip {
	if r.Err != nil || !r.Drift.Detected {
		return nil
	}
	return &AlignmentTip{
		Priority: 5,
		RuleID:   "drift_detected",
		Message:  fmt.Sprintf("Clock drift of %.1f ppm detected (R^2=%.2f) - the two recordings are running at slightly different sample rates.", r.Drift.PPM, r.Drift.RSquared),
	}
}

func tipDriftNotCorrected(r *processor.AlignmentResult, cfg *processor.Config) *AlignmentTip {
	if r.Err != nil || !r.Drift.Detected || r.Drift.CorrectionApplied || !cfg.EnableDriftCorrection {
		return nil
	}
	return &AlignmentTip{
		Priority: 4,
		RuleID:   "drift_uncorrected",
		Message:  "Drift was detected but correction was not applied to the final result - check the drift re-alignment pass for errors.",
	}
}
