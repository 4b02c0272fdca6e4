package domain

import "fmt"

// ArtifactKind identifies the kind of configuration artifact a validator inspects.
type ArtifactKind string

const (
	KindAgent      ArtifactKind = "agent"
	KindHookBundle ArtifactKind = "hook-bundle"
	KindSkill      ArtifactKind = "skill"
	KindMarkdown   ArtifactKind = "markdown"
	KindRule       ArtifactKind = "rule"
	KindCommand    ArtifactKind = "command"
	KindJSON       ArtifactKind = "json"
	KindExternal   ArtifactKind = "external"
)

// Label is the capitalized plural used in report trailers ("Agents validated: 3").
func (k ArtifactKind) Label() string {
	switch k {
	case KindAgent:
		return "Agents"
	case KindHookBundle:
		return "Hook bundles"
	case KindSkill:
		return "Skills"
	case KindMarkdown:
		return "Markdown files"
	case KindRule:
		return "Rules"
	case KindCommand:
		return "Commands"
	case KindJSON:
		return "JSON files"
	default:
		return "Artifacts"
	}
}

// Target is one discovered artifact. Path is relative to the scan root and
// slash-separated; AbsPath is the OS path it was read from.
type Target struct {
	Path    string
	AbsPath string
	Kind    ArtifactKind
	Content []byte
}

// Severity of a Finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Marker returns the literal written on report lines. Aggregators count
// lines by these markers, so they must never change.
func (s Severity) Marker() string {
	if s == SeverityError {
		return MarkerError
	}
	return MarkerWarning
}

// Finding is a single detected problem in one artifact.
type Finding struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule"`
}

func (f Finding) String() string {
	loc := f.Path
	if f.Line > 0 {
		loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
	}
	return f.Severity.Marker() + " " + FoldMarkers(fmt.Sprintf("%s: %s [%s]", loc, f.Message, f.Rule))
}

// Errorf builds an error Finding.
func Errorf(path, rule, format string, args ...any) Finding {
	return Finding{Severity: SeverityError, Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning Finding.
func Warnf(path, rule, format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Report is the result of one validator invocation.
type Report struct {
	Validator string       `json:"validator"`
	Kind      ArtifactKind `json:"kind"`
	Findings  []Finding    `json:"findings"`
	Scanned   int          `json:"scanned"`
	// Files lists every scanned target in walk order.
	Files []string `json:"files,omitempty"`
	// Output holds the raw text of validators that report through the
	// marker channel instead of structured findings.
	Output string `json:"output,omitempty"`
}

// HasErrors reports whether any finding is an error.
func (r *Report) HasErrors() bool {
	return r.Errors() > 0
}

func (r *Report) Errors() int { return r.count(SeverityError) }

func (r *Report) Warnings() int { return r.count(SeverityWarning) }

func (r *Report) count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// FindingsFor returns the findings recorded for path, in the order they were added.
func (r *Report) FindingsFor(path string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Path == path {
			out = append(out, f)
		}
	}
	return out
}
