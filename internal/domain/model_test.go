package domain_test

import (
	"testing"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSeverity_Marker(t *testing.T) {
	assert.Equal(t, "ERROR", domain.SeverityError.Marker())
	assert.Equal(t, "WARNING", domain.SeverityWarning.Marker())
}

func TestFinding_String(t *testing.T) {
	f := domain.Errorf("agents/a.md", "missing-field:model", "missing required field: %s", "model")
	assert.Equal(t, "ERROR agents/a.md: missing required field: model [missing-field:model]", f.String())

	f = domain.Warnf("hooks/h.json", "unknown-event", "unrecognized trigger %q", "X")
	f.Line = 3
	assert.Equal(t, `WARNING hooks/h.json:3: unrecognized trigger "X" [unknown-event]`, f.String())
}

func TestFinding_StringCarriesOneMarker(t *testing.T) {
	f := domain.Warnf("rules/ERROR_HANDLING.md", "short-body", "suspiciously short body")
	assert.Equal(t, "WARNING rules/error_HANDLING.md: suspiciously short body [short-body]", f.String())

	f = domain.Errorf("agents/a.md", "missing-field:model", "WARNING: model is required")
	errs, warns := domain.CountMarkers(f.String())
	assert.Equal(t, 1, errs)
	assert.Zero(t, warns)
}

func TestReport_Counts(t *testing.T) {
	r := &domain.Report{Findings: []domain.Finding{
		domain.Errorf("a", "r", "x"),
		domain.Warnf("a", "r", "y"),
		domain.Warnf("b", "r", "z"),
	}}
	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.Errors())
	assert.Equal(t, 2, r.Warnings())
	assert.Len(t, r.FindingsFor("a"), 2)
}

func TestReport_WarningsOnlyHasNoErrors(t *testing.T) {
	r := &domain.Report{Findings: []domain.Finding{domain.Warnf("a", "r", "y")}}
	assert.False(t, r.HasErrors())
}

func TestArtifactKind_Label(t *testing.T) {
	assert.Equal(t, "Agents", domain.KindAgent.Label())
	assert.Equal(t, "Hook bundles", domain.KindHookBundle.Label())
	assert.Equal(t, "Artifacts", domain.KindExternal.Label())
}

func TestCountMarkers(t *testing.T) {
	text := "checking\nERROR a: bad\nWARNING b: meh\nERROR and WARNING on one line\nErrors: 2\n"
	errs, warns := domain.CountMarkers(text)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 2, warns)
}

func TestCountMarkers_SummaryLineIsNotAMarker(t *testing.T) {
	errs, warns := domain.CountMarkers("Agents validated: 4, Errors: 0\nWarnings: 0")
	assert.Zero(t, errs)
	assert.Zero(t, warns)
}

func TestParseMarkers(t *testing.T) {
	findings := domain.ParseMarkers("lint", "ok line\n  ERROR x broken\nWARNING y\n")
	assert.Len(t, findings, 2)
	assert.Equal(t, domain.SeverityError, findings[0].Severity)
	assert.Equal(t, "ERROR x broken", findings[0].Message)
	assert.Equal(t, domain.SeverityWarning, findings[1].Severity)
	assert.Equal(t, "lint", findings[1].Path)
}
