// Package logging handles alignment report generation and console display.
// This file provides console display for single alignment results, adapted
// from the teacher's analysis_display.go (--analysis-only mode) to
// jivesync's non-interactive / --logs-only output path.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/jivesync/internal/processor"
)

// DisplayAlignmentResult writes a single alignment result to the console in
// the same plain key/value style as the teacher's analysis-only mode.
func DisplayAlignmentResult(w io.Writer, referencePath, targetPath string, r *processor.AlignmentResult) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "ALIGN: %s -> %s\n", filepath.Base(referencePath), filepath.Base(targetPath))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	if r == nil {
		fmt.Fprintln(w, "no result")
		return
	}
	if r.Err != nil {
		fmt.Fprintf(w, "FAILED (%s): %s\n", r.Err.Kind, r.Err.Message)
		return
	}

	fmt.Fprintf(w, "Method:               %s\n", r.Method)
	fmt.Fprintf(w, "Offset:               %d samples\n", r.OffsetSamples)
	fmt.Fprintf(w, "Confidence:           %.3f\n", r.Confidence)
	fmt.Fprintf(w, "Peak Correlation:     %.3f\n", r.PeakCorrelation)
	fmt.Fprintf(w, "Secondary Peak Ratio: %.3f\n", r.SecondaryPeakRatio)
	fmt.Fprintf(w, "SNR Estimate:         %.1f dB\n", r.SNREstimateDB)
	fmt.Fprintf(w, "Noise Floor:          %.1f dB\n", r.NoiseFloorDB)

	if r.Drift.Detected {
		fmt.Fprintf(w, "Drift:                %+.1f ppm (R^2=%.2f, corrected=%v)\n", r.Drift.PPM, r.Drift.RSquared, r.Drift.CorrectionApplied)
	} else {
		fmt.Fprintln(w, "Drift:                none detected")
	}
	fmt.Fprintln(w)
}
