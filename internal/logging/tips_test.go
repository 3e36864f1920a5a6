package logging

import (
	"testing"

	"github.com/linuxmatters/jivesync/internal/processor"
)

func TestGenerateAlignmentTipsFailed(t *testing.T) {
	r := &processor.AlignmentResult{Err: processor.NewAlignError(processor.InsufficientData, "best peak pinned to search boundary")}
	tips := GenerateAlignmentTips(r, processor.DefaultConfig())
	if len(tips) == 0 {
		t.Fatal("expected at least one tip for a pinned-boundary failure")
	}
	if tips[0].RuleID != "pinned_boundary" {
		t.Errorf("expected pinned_boundary tip first, got %q", tips[0].RuleID)
	}
}

func TestGenerateAlignmentTipsSilentDoesNotClaimPinnedBoundary(t *testing.T) {
	r := &processor.AlignmentResult{Err: processor.NewAlignError(processor.InsufficientData, "audio is silent")}
	tips := GenerateAlignmentTips(r, processor.DefaultConfig())
	for _, tip := range tips {
		if tip.RuleID == "pinned_boundary" {
			t.Errorf("silent-target failure should not produce a pinned_boundary tip, got %+v", tips)
		}
	}
	if len(tips) == 0 || tips[0].RuleID != "failed" {
		t.Errorf("expected a generic failed tip for a silent target, got %+v", tips)
	}
}

func TestGenerateAlignmentTipsLowConfidence(t *testing.T) {
	cfg := processor.DefaultConfig()
	r := &processor.AlignmentResult{Confidence: cfg.ConfidenceThreshold - 0.2}
	tips := GenerateAlignmentTips(r, cfg)
	found := false
	for _, tip := range tips {
		if tip.RuleID == "low_confidence" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected low_confidence tip, got %+v", tips)
	}
}

func TestGenerateAlignmentTipsClean(t *testing.T) {
	cfg := processor.DefaultConfig()
	r := &processor.AlignmentResult{
		Confidence:         0.95,
		SecondaryPeakRatio: 0.2,
		SNREstimateDB:      20,
	}
	tips := GenerateAlignmentTips(r, cfg)
	if len(tips) != 0 {
		t.Errorf("expected no tips for a clean result, got %+v", tips)
	}
}

func TestGenerateAlignmentTipsNil(t *testing.T) {
	if tips := GenerateAlignmentTips(nil, nil); tips != nil {
		t.Errorf("expected nil tips for nil result, got %+v", tips)
	}
}

func TestMaxAlignmentTipsCap(t *testing.T) {
	cfg := processor.DefaultConfig()
	r := &processor.AlignmentResult{
		Confidence:         cfg.ConfidenceThreshold - 0.3,
		SecondaryPeakRatio: 0.9,
		SNREstimateDB:      2,
		Drift:              processor.DriftInfo{Detected: true, PPM: 15, RSquared: 0.9},
	}
	tips := GenerateAlignmentTips(r, cfg)
	if len(tips) > MaxAlignmentTips {
		t.Errorf("expected at most %d tips, got %d", MaxAlignmentTips, len(tips))
	}
}
