// Package logging handles generation of alignment reports, adapted from the
// teacher's per-file processing report (GenerateReport in the original
// report.go) to per-pair alignment results.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/jivesync/internal/processor"
)

// writeSection writes a section header with title and dashed underline.
func writeSection(f *os.File, title string) {
	fmt.Fprintln(f, title)
	fmt.Fprintln(f, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate an alignment
// report, mirroring the teacher's ReportData but keyed on a reference/target
// pair instead of a single processed file.
type ReportData struct {
	ReferencePath string
	TargetPath    string
	StartTime     time.Time
	EndTime       time.Time
	Result        *processor.AlignmentResult
	Config        *processor.Config
}

// GenerateReport creates a detailed alignment report and saves it alongside
// the target file. The report filename is <target>-aligned.log.
func GenerateReport(data ReportData) error {
	logPath := strings.TrimSuffix(data.TargetPath, filepath.Ext(data.TargetPath)) + "-aligned.log"

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeProcessingSummary(f, data)
	writeResultTable(f, data.Result)
	if data.Result != nil {
		writeDriftSection(f, data.Result.Drift)
	}
	writeTipsSection(f, data.Result, data.Config)

	return nil
}

func writeReportHeader(f *os.File, data ReportData) {
	fmt.Fprintln(f, "Jivesync Alignment Report")
	fmt.Fprintln(f, "=========================")
	fmt.Fprintf(f, "Reference: %s\n", filepath.Base(data.ReferencePath))
	fmt.Fprintf(f, "Target:    %s\n", filepath.Base(data.TargetPath))
	fmt.Fprintf(f, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(f, "")
}

func writeProcessingSummary(f *os.File, data ReportData) {
	writeSection(f, "Processing Summary")
	totalTime := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(f, "Total: %s\n", formatDuration(totalTime))
	fmt.Fprintln(f, "")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// writeResultTable outputs the alignment result as a single-column metric
// table (one column per method for Hybrid would require rerunning
// constituents, so this reports the combined/selected method's metrics).
func writeResultTable(f *os.File, r *processor.AlignmentResult) {
	writeSection(f, "Alignment Result")

	if r == nil {
		fmt.Fprintln(f, "no result")
		fmt.Fprintln(f, "")
		return
	}
	if r.Err != nil {
		fmt.Fprintf(f, "FAILED: %s\n", r.Err.Error())
		fmt.Fprintln(f, "")
		return
	}

	table := NewMetricTable("Value")
	table.AddRow("Method", []string{r.Method}, "", "")
	table.AddRow("Offset", []string{formatMetric(float64(r.OffsetSamples), 0)}, "samples", "")
	table.AddRow("Confidence", []string{formatMetric(r.Confidence, 3)}, "", "")
	table.AddRow("Peak Correlation", []string{formatMetric(r.PeakCorrelation, 3)}, "", "")
	table.AddRow("Secondary Peak Ratio", []string{formatMetric(r.SecondaryPeakRatio, 3)}, "", "")
	table.AddRow("SNR Estimate", []string{formatMetric(r.SNREstimateDB, 1)}, "dB", "")
	table.AddRow("Noise Floor", []string{formatMetric(r.NoiseFloorDB, 1)}, "dB", "")

	fmt.Fprint(f, table.String())
	fmt.Fprintln(f, "")
}

func writeDriftSection(f *os.File, d processor.DriftInfo) {
	writeSection(f, "Drift Analysis")
	if !d.Detected {
		fmt.Fprintln(f, "no drift detected")
		fmt.Fprintln(f, "")
		return
	}
	fmt.Fprintf(f, "Drift:      %s ppm\n", formatMetricSigned(d.PPM, 2))
	fmt.Fprintf(f, "R-squared:  %s\n", formatMetric(d.RSquared, 3))
	fmt.Fprintf(f, "Corrected:  %v\n", d.CorrectionApplied)
	fmt.Fprintln(f, "")
}

func writeTipsSection(f *os.File, r *processor.AlignmentResult, cfg *processor.Config) {
	tips := GenerateAlignmentTips(r, cfg)
	if len(tips) == 0 {
		return
	}
	writeSection(f, "Diagnostic Notes")
	for _, t := range tips {
		fmt.Fprintf(f, "- %s\n", t.Message)
	}
	fmt.Fprintln(f, "")
}
