package validation

import "github.com/openkraft/dotcheck/internal/domain"

// CheckJSON reports a configuration file that does not parse, even after
// the comment-line retry.
func CheckJSON(t domain.Target) []domain.Finding {
	if _, err := ParseJSON(t.Content); err != nil {
		return []domain.Finding{parseErrorFinding(t.Path, err)}
	}
	return nil
}
