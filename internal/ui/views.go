package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderProcessingView renders the main alignment progress view.
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderTargetQueue(m))
	b.WriteString("\n\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header.
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A40000")).
		Render("Jivesync")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Aligning %d target(s) against %s", m.TotalTargets, filepath.Base(m.ReferencePath)))

	return title + "\n" + subtitle
}

// renderTargetQueue renders the list of targets with their status.
func renderTargetQueue(m Model) string {
	var b strings.Builder

	for i, t := range m.Targets {
		b.WriteString(renderTargetEntry(t, i, m.CurrentIndex))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTargetEntry renders a single target entry in the queue.
func renderTargetEntry(t TargetProgress, index int, currentIndex int) string {
	fileName := filepath.Base(t.TargetPath)

	switch t.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		summary := fmt.Sprintf("offset %d samples | confidence %.2f", t.Result.OffsetSamples, t.Result.Confidence)
		if t.Result.DriftDetected {
			summary += fmt.Sprintf(" | drift %+.1f ppm", t.Result.DriftPPM)
		}
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, summary)

	case StatusAligning:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderTargetDetails(t))

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, t.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderTargetDetails renders detailed progress for the active target.
func renderTargetDetails(t TargetProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#A40000")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	content.WriteString(fmt.Sprintf("%s: %s\n", t.Stage, t.StageLabel))
	content.WriteString(renderProgressBar(t.Progress, 40))
	content.WriteString("\n\n")

	elapsed := t.ElapsedTime.Seconds()
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs", elapsed))

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer.
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Targets) {
		current := m.CurrentIndex + 1
		content = fmt.Sprintf("Aligning target %d of %d (%d complete, %d failed)",
			current, m.TotalTargets, m.CompletedCount, m.FailedCount)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedCount, m.TotalTargets)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary.
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("Alignment Complete")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, t := range m.Targets {
		if t.Status == StatusComplete {
			b.WriteString(renderCompletedTarget(t))
			b.WriteString("\n")
		} else if t.Status == StatusError {
			b.WriteString(fmt.Sprintf(" ✗ %s: %v\n", filepath.Base(t.TargetPath), t.Error))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d targets aligned successfully\n", m.CompletedCount, m.TotalTargets))

	return b.String()
}

// renderCompletedTarget renders a summary for a completed target.
func renderCompletedTarget(t TargetProgress) string {
	fileName := filepath.Base(t.TargetPath)
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	drift := "none"
	if t.Result.DriftDetected {
		drift = fmt.Sprintf("%+.1f ppm", t.Result.DriftPPM)
	}

	return fmt.Sprintf(" %s %s\n"+
		"   Offset: %d samples | Confidence: %.2f | Drift: %s",
		icon, fileName, t.Result.OffsetSamples, t.Result.Confidence, drift)
}
