package domain

import "strings"

// Report line markers. Any line containing MarkerError counts as one error and
// any line containing MarkerWarning counts as one warning.
const (
	MarkerError   = "ERROR"
	MarkerWarning = "WARNING"
)

var markerFold = strings.NewReplacer(MarkerError, "error", MarkerWarning, "warning")

// FoldMarkers lowercases the marker words in free text such as a path or a
// message, so a printed line carries only the marker it was written with.
func FoldMarkers(text string) string {
	return markerFold.Replace(text)
}

// CountMarkers counts error and warning lines in a textual report. A line
// carrying both markers counts once for each.
func CountMarkers(text string) (errors, warnings int) {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, MarkerError) {
			errors++
		}
		if strings.Contains(line, MarkerWarning) {
			warnings++
		}
	}
	return errors, warnings
}

// ParseMarkers converts the marker lines of a textual report into findings
// attributed to path. Lines without markers are dropped.
func ParseMarkers(path, text string) []Finding {
	var findings []Finding
	for _, line := range strings.Split(text, "\n") {
		msg := strings.TrimSpace(line)
		if strings.Contains(line, MarkerError) {
			findings = append(findings, Finding{Severity: SeverityError, Path: path, Message: msg, Rule: "external"})
		}
		if strings.Contains(line, MarkerWarning) {
			findings = append(findings, Finding{Severity: SeverityWarning, Path: path, Message: msg, Rule: "external"})
		}
	}
	return findings
}
