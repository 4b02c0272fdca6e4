package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/dotcheck/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 48))
)

// RenderSummary renders the per-validator table and the run totals. The
// output carries no timings, so identical trees render identically.
func RenderSummary(agg *domain.AggregateResult) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("dotcheck") + "  " + dimStyle.Render(domain.FoldMarkers(agg.Root)) + "\n\n")

	for _, n := range agg.Notices {
		b.WriteString("  " + renderFinding(n) + "\n")
	}
	if len(agg.Notices) > 0 {
		b.WriteString("\n")
	}

	width := 0
	for _, v := range agg.Validators {
		width = max(width, len(v.Name))
	}
	for _, v := range agg.Validators {
		leader := faintStyle.Render(strings.Repeat(".", width-len(v.Name)+3))
		fmt.Fprintf(&b, "  %s %s %s\n", titleStyle.Render(v.Name), leader, renderStatus(v))
		if v.ScriptError != "" {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(strings.Repeat(" ", width+5)+domain.FoldMarkers(v.ScriptError)))
		}
	}

	b.WriteString("\n" + separatorLine + "\n")
	fmt.Fprintf(&b, "  Validators run: %d\n", len(agg.Validators))
	fmt.Fprintf(&b, "  Total errors: %d\n", agg.TotalErrors)
	fmt.Fprintf(&b, "  Total warnings: %d\n", agg.TotalWarnings)
	b.WriteString("\n  " + renderVerdict(agg.Status) + "\n")

	return b.String()
}

func renderStatus(v domain.ValidatorResult) string {
	if v.ScriptError != "" {
		return failStyle.Render("FAIL") + dimStyle.Render(" (script error)")
	}

	var counts []string
	if v.Errors > 0 {
		counts = append(counts, plural(v.Errors, "error"))
	}
	if v.Warnings > 0 {
		counts = append(counts, plural(v.Warnings, "warning"))
	}
	detail := ""
	if len(counts) > 0 {
		detail = dimStyle.Render(" (" + strings.Join(counts, ", ") + ")")
	}

	if v.Status == domain.StatusFail {
		return failStyle.Render("FAIL") + detail
	}
	return passStyle.Render("OK") + detail
}

func renderVerdict(s domain.Status) string {
	if s == domain.StatusFail {
		return failStyle.Render(string(domain.StatusFail))
	}
	return passStyle.Render(string(domain.StatusPass))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
