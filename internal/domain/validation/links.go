package validation

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/frontmatter"
	"github.com/yuin/goldmark/ast"
)

const RuleBrokenLink = "broken-link"

var scheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// placeholderTargets are link targets used as stand-ins in templates.
var placeholderTargets = map[string]bool{"url": true, "link": true, "badge": true}

// Link is an inline link or image found in markdown.
type Link struct {
	Text        string
	Destination string
}

// ExtractLinks returns the links and images of a markdown document in
// document order. Code blocks and code spans are not inspected.
func ExtractLinks(content []byte) []Link {
	src := content
	if _, body, _, err := frontmatter.Split(content); err == nil {
		src = []byte(body)
	}

	var links []Link
	_ = ast.Walk(parseMarkdown(src), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			links = append(links, Link{Text: plainText(v, src), Destination: string(v.Destination)})
		case *ast.Image:
			links = append(links, Link{Text: plainText(v, src), Destination: string(v.Destination)})
		}
		return ast.WalkContinue, nil
	})
	return links
}

// ResolveLink maps a link destination found in the file at from to a
// root-relative path. It returns false for links that are not checked:
// external URLs, in-page anchors, placeholders and targets outside the root.
func ResolveLink(from, dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || scheme.MatchString(dest) || placeholderTargets[dest] {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}

	var target string
	if strings.HasPrefix(dest, "/") {
		target = path.Clean(strings.TrimLeft(dest, "/"))
	} else {
		target = path.Join(path.Dir(from), dest)
	}
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}

// CheckLinks warns for every relative link in the file whose target does not
// exist. Template and spec documents are skipped.
func CheckLinks(t domain.Target, exists func(rel string) bool) []domain.Finding {
	base := path.Base(t.Path)
	if strings.Contains(base, "TEMPLATE") || strings.Contains(base, "SPEC") {
		return nil
	}

	var findings []domain.Finding
	for _, l := range ExtractLinks(t.Content) {
		target, ok := ResolveLink(t.Path, l.Destination)
		if !ok || exists(target) {
			continue
		}
		findings = append(findings, domain.Warnf(t.Path, RuleBrokenLink, "broken link [%s](%s)", l.Text, l.Destination))
	}
	return findings
}
