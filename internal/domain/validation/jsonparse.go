package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// CommentPrefix marks comment-convention keys such as "// NOTE".
const CommentPrefix = "//"

var (
	// commentLine matches a bare // comment, or a line holding one complete
	// comment member with a string value. A comment key that opens an object
	// or array is left alone so the structure survives.
	commentLine   = regexp.MustCompile(`^\s*(//|"//[^"]*"\s*:\s*"(?:[^"\\]|\\.)*"\s*,?\s*$)`)
	danglingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParseError is a JSON document that failed both parse stages.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseJSON decodes content strictly and, if that fails, retries once with
// comment lines blanked and the commas they left dangling removed. Only a
// failure of the retry is returned. Blanking keeps line numbers intact.
func ParseJSON(content []byte) (any, error) {
	var v any
	if err := json.Unmarshal(content, &v); err == nil {
		return v, nil
	}

	stripped := StripComments(content)
	var retry any
	if err := json.Unmarshal(stripped, &retry); err != nil {
		return nil, &ParseError{Line: errorLine(stripped, err), Err: err}
	}
	return retry, nil
}

// StripComments blanks every comment-convention line and drops commas that
// no longer precede a value.
func StripComments(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	for i, line := range lines {
		if commentLine.Match(line) {
			lines[i] = nil
		}
	}
	joined := bytes.Join(lines, []byte("\n"))
	return danglingComma.ReplaceAll(joined, []byte("$1"))
}

func errorLine(content []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}

// IsCommentKey reports whether key follows the comment convention.
func IsCommentKey(key string) bool {
	return strings.HasPrefix(key, CommentPrefix)
}

func hasCommentKey(m map[string]any) bool {
	for k := range m {
		if IsCommentKey(k) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
