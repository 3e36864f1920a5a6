package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linuxmatters/jivesync/internal/processor"
)

func TestGenerateReportWritesAlignedLog(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "drums.wav")

	data := ReportData{
		ReferencePath: filepath.Join(dir, "reference.wav"),
		TargetPath:    targetPath,
		StartTime:     time.Now().Add(-2 * time.Second),
		EndTime:       time.Now(),
		Result: &processor.AlignmentResult{
			Method:             "Hybrid",
			OffsetSamples:      4410,
			Confidence:         0.92,
			PeakCorrelation:    0.95,
			SecondaryPeakRatio: 0.2,
			SNREstimateDB:      18,
			NoiseFloorDB:       -40,
			Drift:              processor.DriftInfo{Detected: true, PPM: 95, RSquared: 0.9},
		},
		Config: processor.DefaultConfig(),
	}

	if err := GenerateReport(data); err != nil {
		t.Fatal(err)
	}

	wantPath := filepath.Join(dir, "drums-aligned.log")
	content, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("expected report at %s: %v", wantPath, err)
	}
	out := string(content)
	if !strings.Contains(out, "Hybrid") {
		t.Errorf("expected method name in report, got:\n%s", out)
	}
	if !strings.Contains(out, "Drift Analysis") {
		t.Errorf("expected a drift section, got:\n%s", out)
	}
	if !strings.Contains(out, "95") {
		t.Errorf("expected drift ppm value in report, got:\n%s", out)
	}
}

func TestGenerateReportFailedResult(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "silent.wav")

	data := ReportData{
		ReferencePath: filepath.Join(dir, "reference.wav"),
		TargetPath:    targetPath,
		StartTime:     time.Now(),
		EndTime:       time.Now(),
		Result:        &processor.AlignmentResult{Err: processor.NewAlignError(processor.InsufficientData, "silent target")},
		Config:        processor.DefaultConfig(),
	}
	if err := GenerateReport(data); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "silent-aligned.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "FAILED") {
		t.Errorf("expected FAILED in report for an errored result, got:\n%s", content)
	}
}
