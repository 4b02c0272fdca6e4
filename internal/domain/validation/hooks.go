package validation

import (
	"errors"
	"fmt"

	"github.com/openkraft/dotcheck/internal/domain"
)

const (
	RuleNotObject        = "not-object"
	RuleHooksShape       = "hooks-shape"
	RuleUnknownEvent     = "unknown-event"
	RuleEventShape       = "event-shape"
	RuleEntryMissingType = "entry-missing-type"
)

// HookEvents are the trigger names recognized without configuration.
var HookEvents = []string{
	"PreToolUse",
	"PostToolUse",
	"Notification",
	"UserPromptSubmit",
	"Stop",
	"SubagentStop",
	"PreCompact",
	"SessionStart",
	"SessionEnd",
}

// HookOptions configures CheckHookBundle.
type HookOptions struct {
	// ExtraEvents extends HookEvents.
	ExtraEvents []string
}

// CheckHookBundle validates one hook bundle. Events are visited in sorted
// order so the result does not depend on map iteration.
func CheckHookBundle(t domain.Target, opts HookOptions) []domain.Finding {
	v, err := ParseJSON(t.Content)
	if err != nil {
		return []domain.Finding{parseErrorFinding(t.Path, err)}
	}

	root, ok := v.(map[string]any)
	if !ok {
		return []domain.Finding{domain.Errorf(t.Path, RuleNotObject, "hook bundle must be a JSON object")}
	}
	raw, present := root["hooks"]
	if !present {
		return nil
	}
	hooks, ok := raw.(map[string]any)
	if !ok {
		return []domain.Finding{domain.Errorf(t.Path, RuleHooksShape, `"hooks" must be an object`)}
	}

	known := make(map[string]bool, len(HookEvents)+len(opts.ExtraEvents))
	for _, e := range HookEvents {
		known[e] = true
	}
	for _, e := range opts.ExtraEvents {
		known[e] = true
	}

	var findings []domain.Finding
	for _, event := range sortedKeys(hooks) {
		if IsCommentKey(event) {
			continue
		}
		if !known[event] {
			findings = append(findings, domain.Warnf(t.Path, RuleUnknownEvent, "unknown hook event %q", event))
		}
		entries, ok := hooks[event].([]any)
		if !ok {
			findings = append(findings, domain.Errorf(t.Path, RuleEventShape, "hooks.%s must be an array", event))
			continue
		}
		findings = append(findings, checkHookEntries(t.Path, "hooks."+event, entries)...)
	}
	return findings
}

// checkHookEntries requires a "type" on every entry. A matcher group stands
// in for a typed entry and has its own "hooks" array checked instead. An
// entry carrying a comment key, or a bare comment string, is informational.
func checkHookEntries(path, where string, entries []any) []domain.Finding {
	var findings []domain.Finding
	for i, e := range entries {
		loc := fmt.Sprintf("%s[%d]", where, i)
		switch entry := e.(type) {
		case string:
			if IsCommentKey(entry) {
				continue
			}
		case map[string]any:
			if _, ok := entry["type"]; ok {
				continue
			}
			if nested, ok := entry["hooks"]; ok {
				list, ok := nested.([]any)
				if !ok {
					findings = append(findings, domain.Errorf(path, RuleEventShape, "%s.hooks must be an array", loc))
					continue
				}
				findings = append(findings, checkHookEntries(path, loc+".hooks", list)...)
				continue
			}
			if hasCommentKey(entry) {
				continue
			}
		}
		findings = append(findings, domain.Warnf(path, RuleEntryMissingType, `%s has no "type"`, loc))
	}
	return findings
}

func parseErrorFinding(path string, err error) domain.Finding {
	f := domain.Errorf(path, RuleParseError, "invalid JSON: %v", err)
	var pe *ParseError
	if errors.As(err, &pe) {
		f.Line = pe.Line
		f.Message = fmt.Sprintf("invalid JSON: %v", pe.Err)
	}
	return f
}
