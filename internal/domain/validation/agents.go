package validation

import (
	"strings"

	"github.com/openkraft/dotcheck/internal/domain"
)

const RuleUnknownModel = "unknown-model"

// AgentFields are required in every agent definition, checked in this order.
var AgentFields = []string{"name", "description", "tools", "model"}

// AgentOptions configures CheckAgent.
type AgentOptions struct {
	Models  []string
	MinBody int
}

// CheckAgent validates one agent definition. A file without a complete
// frontmatter block gets that single error and nothing else.
func CheckAgent(t domain.Target, opts AgentOptions) []domain.Finding {
	doc, stop := parseFrontmatter(t)
	if stop != nil {
		return []domain.Finding{*stop}
	}

	var findings []domain.Finding
	for _, key := range AgentFields {
		if !doc.Has(key) {
			findings = append(findings, domain.Errorf(t.Path, MissingField(key), "missing required field: %s", key))
		}
	}

	if doc.Has("model") {
		model := strings.TrimSpace(doc.Get("model"))
		if !contains(opts.Models, model) {
			findings = append(findings, domain.Warnf(t.Path, RuleUnknownModel,
				"unrecognized model %q (expected one of %s)", model, strings.Join(opts.Models, ", ")))
		}
	}

	return append(findings, checkBody(t, doc, opts.MinBody)...)
}
