package tui_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleAggregate() *domain.AggregateResult {
	agents := &domain.Report{
		Validator: "agents", Kind: domain.KindAgent, Scanned: 2,
		Files: []string{"agents/a.md", "agents/b.md"},
		Findings: []domain.Finding{
			domain.Errorf("agents/b.md", "missing-field:model", "missing required field: model"),
			domain.Warnf("agents/b.md", "short-body", "suspiciously short body (3 < 100 characters)"),
		},
	}
	links := &domain.Report{Validator: "links", Kind: domain.KindMarkdown, Scanned: 4,
		Findings: []domain.Finding{domain.Warnf("README.md", "broken-link", "broken link [x](y.md)")}}

	return domain.Aggregate("/repo", []domain.ValidatorResult{
		domain.NewValidatorResult("links", links),
		domain.NewScriptErrorResult("slow", errors.New("timed out after 30s")),
		domain.NewValidatorResult("agents", agents),
	}, nil)
}

func TestRenderSummary_ListsValidatorsAndTotals(t *testing.T) {
	out := tui.RenderSummary(sampleAggregate())

	assert.Contains(t, out, "FAIL (1 error, 1 warning)")
	assert.Contains(t, out, "OK (1 warning)")
	assert.Contains(t, out, "FAIL (script error)")
	assert.Contains(t, out, "timed out after 30s")
	assert.Contains(t, out, "Validators run: 3")
	assert.Contains(t, out, "Total errors: 2")
	assert.Contains(t, out, "Total warnings: 2")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "FAIL"))

	agentsAt := strings.Index(out, "agents")
	linksAt := strings.Index(out, "links")
	slowAt := strings.Index(out, "slow")
	assert.True(t, agentsAt < linksAt && linksAt < slowAt, "validators should be listed alphabetically")
}

func TestRenderSummary_IsDeterministic(t *testing.T) {
	assert.Equal(t, tui.RenderSummary(sampleAggregate()), tui.RenderSummary(sampleAggregate()))
}

func TestRenderSummary_NoticesAndPass(t *testing.T) {
	agg := domain.Aggregate("/missing", nil, []domain.Finding{
		domain.Warnf("/missing", "skipped-directory", "directory does not exist, skipped"),
	})
	out := tui.RenderSummary(agg)

	assert.Contains(t, out, "WARNING /missing: directory does not exist, skipped [skipped-directory]")
	assert.Contains(t, out, "Validators run: 0")
	assert.Contains(t, out, "Total warnings: 1")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "PASS"))
}

func TestRenderValidatorReport(t *testing.T) {
	r := &domain.Report{
		Validator: "agents", Kind: domain.KindAgent, Scanned: 2,
		Files: []string{"agents/a.md", "agents/b.md"},
		Findings: []domain.Finding{
			domain.Errorf("agents/b.md", "missing-field:tools", "missing required field: tools"),
		},
	}

	out := tui.RenderValidatorReport(r, false)
	assert.Contains(t, out, "OK agents/a.md")
	assert.Contains(t, out, "ERROR agents/b.md: missing required field: tools [missing-field:tools]")
	assert.Contains(t, out, "Agents validated: 2, Errors: 1")

	errs, warns := domain.CountMarkers(out)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 0, warns)

	quiet := tui.RenderValidatorReport(r, true)
	assert.NotContains(t, quiet, "OK agents/a.md")
}

func TestRenderValidatorReport_UnscannedFindingsFirst(t *testing.T) {
	r := &domain.Report{
		Validator: "skills", Kind: domain.KindSkill,
		Findings: []domain.Finding{domain.Warnf("skills", "skipped-directory", "directory does not exist, skipped")},
	}
	out := tui.RenderValidatorReport(r, false)

	assert.True(t, strings.HasPrefix(out, "WARNING skills:"))
	assert.Contains(t, out, "Skills validated: 0, Errors: 0")
}

func TestRenderValidatorReport_ExternalPassThrough(t *testing.T) {
	r := &domain.Report{Validator: "x", Kind: domain.KindExternal, Output: "ERROR a.md: bad"}
	assert.Equal(t, "ERROR a.md: bad\n", tui.RenderValidatorReport(r, false))
}

func TestRenderValidatorReport_MarkerCountsMatchReport(t *testing.T) {
	r := &domain.Report{
		Validator: "rules", Kind: domain.KindRule, Scanned: 4,
		Files: []string{"rules/ERROR_HANDLING.md", "rules/WARNING_SIGNS.md", "rules/logging.md", "rules/style.md"},
		Findings: []domain.Finding{
			domain.Warnf("rules/ERROR_HANDLING.md", "short-body", "suspiciously short body"),
			domain.Errorf("rules/logging.md", "empty", "file is empty, WARNING ignored"),
			domain.Warnf("rules", "note", "ERROR and WARNING appear in this notice"),
		},
	}

	for _, quiet := range []bool{false, true} {
		errs, warns := domain.CountMarkers(tui.RenderValidatorReport(r, quiet))
		assert.Equal(t, r.Errors(), errs)
		assert.Equal(t, r.Warnings(), warns)
	}
}

func TestRenderValidatorList(t *testing.T) {
	out := tui.RenderValidatorList([]tui.ValidatorInfo{
		{Name: "agents", Kind: domain.KindAgent, Dir: "agents"},
		{Name: "links", Kind: domain.KindMarkdown, Dir: "."},
	})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "agents")
	assert.Contains(t, out, "markdown")
}
