package tui

import (
	"fmt"
	"strings"

	"github.com/openkraft/dotcheck/internal/domain"
)

// RenderValidatorReport renders one validator's report as marker lines,
// followed by the conventional trailer. Findings not tied to a scanned file,
// such as a skipped directory, come first. Clean files get an OK line
// unless quiet is set. Reports of external validators are passed through.
func RenderValidatorReport(r *domain.Report, quiet bool) string {
	var b strings.Builder

	if r.Kind == domain.KindExternal {
		b.WriteString(r.Output)
		if r.Output != "" && !strings.HasSuffix(r.Output, "\n") {
			b.WriteString("\n")
		}
		return b.String()
	}

	scanned := make(map[string]bool, len(r.Files))
	for _, f := range r.Files {
		scanned[f] = true
	}
	for _, f := range r.Findings {
		if !scanned[f.Path] {
			b.WriteString(renderFinding(f) + "\n")
		}
	}

	byFile := make(map[string][]domain.Finding, len(r.Files))
	for _, f := range r.Findings {
		byFile[f.Path] = append(byFile[f.Path], f)
	}
	for _, file := range r.Files {
		findings := byFile[file]
		if len(findings) == 0 {
			if !quiet {
				b.WriteString(passStyle.Render("OK") + " " + fileStyle.Render(domain.FoldMarkers(file)) + "\n")
			}
			continue
		}
		for _, f := range findings {
			b.WriteString(renderFinding(f) + "\n")
		}
	}

	b.WriteString("\n" + Trailer(r) + "\n")
	return b.String()
}

// Trailer is the closing line of a validator report, e.g.
// "Agents validated: 3, Errors: 1".
func Trailer(r *domain.Report) string {
	return fmt.Sprintf("%s validated: %d, Errors: %d", r.Kind.Label(), r.Scanned, r.Errors())
}

// renderFinding colors only the marker so the line still counts when
// scraped.
func renderFinding(f domain.Finding) string {
	tag := warnTagStyle.Render(domain.MarkerWarning)
	if f.Severity == domain.SeverityError {
		tag = errorTagStyle.Render(domain.MarkerError)
	}
	return tag + strings.TrimPrefix(f.String(), f.Severity.Marker())
}

// ValidatorInfo describes a registered validator for listings.
type ValidatorInfo struct {
	Name string              `json:"name"`
	Kind domain.ArtifactKind `json:"kind"`
	Dir  string              `json:"dir"`
}

// RenderValidatorList renders registered validators as an aligned table.
func RenderValidatorList(infos []ValidatorInfo) string {
	var b strings.Builder
	width := len("NAME")
	for _, v := range infos {
		width = max(width, len(v.Name))
	}

	b.WriteString(dimStyle.Render(padRight("NAME", width+2)+padRight("KIND", 14)+"DIRECTORY") + "\n")
	for _, v := range infos {
		fmt.Fprintf(&b, "%s%s%s\n",
			titleStyle.Render(padRight(v.Name, width+2)),
			padRight(string(v.Kind), 14),
			fileStyle.Render(v.Dir),
		)
	}
	return b.String()
}
