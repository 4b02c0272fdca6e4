package validation

import (
	"errors"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Rule identifiers shared across validators.
const (
	RuleMissingFrontmatter  = "missing-frontmatter"
	RuleUnclosedFrontmatter = "unclosed-frontmatter"
	RuleShortBody           = "short-body"
	RuleShortContent        = "short-content"
	RuleMissingHeading      = "missing-heading"
	RuleParseError          = "parse-error"
	RuleSkippedDirectory    = "skipped-directory"
	RuleReadError           = "read-error"
	RuleInternalError       = "internal-error"
)

// MissingField is the rule identifier for an absent required key.
func MissingField(key string) string { return "missing-field:" + key }

// parseFrontmatter returns the document or the single finding that stops
// further checks of the file.
func parseFrontmatter(t domain.Target) (*frontmatter.Document, *domain.Finding) {
	doc, err := frontmatter.Parse(t.Content)
	switch {
	case errors.Is(err, frontmatter.ErrMissing):
		f := domain.Errorf(t.Path, RuleMissingFrontmatter, "missing frontmatter (file must start with %s)", frontmatter.Delimiter)
		f.Line = 1
		return nil, &f
	case errors.Is(err, frontmatter.ErrUnclosed):
		f := domain.Errorf(t.Path, RuleUnclosedFrontmatter, "unclosed frontmatter (no closing %s)", frontmatter.Delimiter)
		f.Line = 1
		return nil, &f
	case err != nil:
		f := domain.Errorf(t.Path, RuleParseError, "frontmatter: %v", err)
		return nil, &f
	}
	return doc, nil
}

// checkBody warns when the trimmed body is shorter than min characters.
// A min of zero disables the check.
func checkBody(t domain.Target, doc *frontmatter.Document, min int) []domain.Finding {
	if min <= 0 {
		return nil
	}
	if n := charCount(doc.Body); n < min {
		f := domain.Warnf(t.Path, RuleShortBody, "suspiciously short body (%d < %d characters)", n, min)
		f.Line = doc.BodyLine
		return []domain.Finding{f}
	}
	return nil
}

func charCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// IsReadme reports whether rel names a README.md, which documents a
// directory rather than defining an artifact.
func IsReadme(rel string) bool {
	return strings.EqualFold(path.Base(rel), "README.md")
}

func parseMarkdown(src []byte) ast.Node {
	return goldmark.DefaultParser().Parse(text.NewReader(src))
}

// hasTopHeading reports whether the markdown contains a level-1 heading.
func hasTopHeading(src []byte) bool {
	found := false
	_ = ast.Walk(parseMarkdown(src), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
