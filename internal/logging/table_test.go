package logging

import (
	"strings"
	"testing"
)

func TestMetricTableString(t *testing.T) {
	table := NewMetricTable("Value")
	table.AddRow("Offset", []string{"128"}, "samples", "")
	table.AddRow("Confidence", []string{"0.91"}, "", "")

	out := table.String()
	if !strings.Contains(out, "Offset") || !strings.Contains(out, "128") {
		t.Fatalf("expected offset row in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Confidence") || !strings.Contains(out, "0.91") {
		t.Fatalf("expected confidence row in output, got:\n%s", out)
	}
	if !strings.Contains(out, "samples") {
		t.Fatalf("expected unit suffix in output, got:\n%s", out)
	}
}

func TestMetricTableEmpty(t *testing.T) {
	table := NewMetricTable("Value")
	if got := table.String(); got != "" {
		t.Fatalf("expected empty string for empty table, got %q", got)
	}
}

func TestFormatMetric(t *testing.T) {
	cases := []struct {
		value    float64
		decimals int
		want     string
	}{
		{1.2345, 2, "1.23"},
		{0, 1, "0.0"},
	}
	for _, c := range cases {
		if got := formatMetric(c.value, c.decimals); got != c.want {
			t.Errorf("formatMetric(%v, %d) = %q, want %q", c.value, c.decimals, got, c.want)
		}
	}
}

func TestFormatMetricSigned(t *testing.T) {
	if got := formatMetricSigned(4.2, 1); got != "+4.2" {
		t.Errorf("formatMetricSigned(4.2, 1) = %q, want %q", got, "+4.2")
	}
	if got := formatMetricSigned(-4.2, 1); got != "-4.2" {
		t.Errorf("formatMetricSigned(-4.2, 1) = %q, want %q", got, "-4.2")
	}
}
