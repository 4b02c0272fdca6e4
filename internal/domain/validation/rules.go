package validation

import (
	"errors"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/frontmatter"
)

const (
	MinRuleContent    = 200
	MinCommandContent = 100
)

// CheckRule requires a top-level heading and a non-trivial amount of text.
func CheckRule(t domain.Target) []domain.Finding {
	return checkDocument(t, t.Content, MinRuleContent)
}

// CheckCommand is CheckRule for slash commands, which may open with a
// frontmatter block that is not counted as content.
func CheckCommand(t domain.Target) []domain.Finding {
	content := t.Content
	_, body, _, err := frontmatter.Split(t.Content)
	switch {
	case err == nil:
		content = []byte(body)
	case errors.Is(err, frontmatter.ErrUnclosed):
		f := domain.Errorf(t.Path, RuleUnclosedFrontmatter, "unclosed frontmatter (no closing %s)", frontmatter.Delimiter)
		f.Line = 1
		return []domain.Finding{f}
	}
	return checkDocument(t, content, MinCommandContent)
}

func checkDocument(t domain.Target, content []byte, min int) []domain.Finding {
	var findings []domain.Finding
	if !hasTopHeading(content) {
		findings = append(findings, domain.Errorf(t.Path, RuleMissingHeading, "missing top-level heading (# Title)"))
	}
	if n := charCount(string(content)); n < min {
		findings = append(findings, domain.Warnf(t.Path, RuleShortContent, "suspiciously short content (%d < %d characters)", n, min))
	}
	return findings
}
