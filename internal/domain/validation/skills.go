package validation

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/camelcase"
	"github.com/openkraft/dotcheck/internal/domain"
)

const (
	RuleNameTooLong        = "name-too-long"
	RuleNamePattern        = "name-pattern"
	RuleNameMismatch       = "name-mismatch"
	RuleDescriptionTooLong = "description-too-long"

	MaxSkillName        = 64
	MaxSkillDescription = 1024
)

var skillName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// SkillOptions configures CheckSkill.
type SkillOptions struct {
	MinBody int
}

// CheckSkill validates one SKILL.md.
func CheckSkill(t domain.Target, opts SkillOptions) []domain.Finding {
	doc, stop := parseFrontmatter(t)
	if stop != nil {
		return []domain.Finding{*stop}
	}

	var findings []domain.Finding
	if !doc.Has("name") {
		findings = append(findings, domain.Errorf(t.Path, MissingField("name"), "missing required field: name"))
	} else {
		findings = append(findings, checkSkillName(t.Path, strings.TrimSpace(doc.Get("name")))...)
	}

	if !doc.Has("description") {
		findings = append(findings, domain.Errorf(t.Path, MissingField("description"), "missing required field: description"))
	} else if n := utf8.RuneCountInString(strings.TrimSpace(doc.Get("description"))); n > MaxSkillDescription {
		findings = append(findings, domain.Errorf(t.Path, RuleDescriptionTooLong,
			"description exceeds %d characters (%d)", MaxSkillDescription, n))
	}

	return append(findings, checkBody(t, doc, opts.MinBody)...)
}

func checkSkillName(rel, name string) []domain.Finding {
	var findings []domain.Finding
	if n := utf8.RuneCountInString(name); n > MaxSkillName {
		findings = append(findings, domain.Errorf(rel, RuleNameTooLong, "name exceeds %d characters (%d)", MaxSkillName, n))
	}
	if !skillName.MatchString(name) {
		f := domain.Errorf(rel, RuleNamePattern, "name %q must be lowercase letters, digits and hyphens", name)
		if hint := SuggestSkillName(name); hint != "" {
			f.Message += " (try " + `"` + hint + `")`
		}
		return append(findings, f)
	}
	if dir := path.Base(path.Dir(rel)); dir != "." && dir != name {
		findings = append(findings, domain.Warnf(rel, RuleNameMismatch, "name %q does not match directory %q", name, dir))
	}
	return findings
}

// SuggestSkillName turns names like "PDFTools" or "my_skill" into a valid
// hyphenated form. It returns "" when no valid name can be derived.
func SuggestSkillName(name string) string {
	var words []string
	for _, w := range camelcase.Split(name) {
		w = strings.Map(func(r rune) rune {
			if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return unicode.ToLower(r)
			}
			return -1
		}, w)
		switch {
		case w == "":
		case isDigits(w) && len(words) > 0:
			words[len(words)-1] += w
		default:
			words = append(words, w)
		}
	}

	s := strings.TrimLeft(strings.Join(words, "-"), "0123456789-")
	if len(s) > MaxSkillName {
		s = strings.TrimRight(s[:MaxSkillName], "-")
	}
	if !skillName.MatchString(s) {
		return ""
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
