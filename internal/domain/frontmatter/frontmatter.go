// Package frontmatter splits a markdown document into its "---" delimited
// metadata block and body, and reads the block's top-level keys.
//
// Keys are read with a YAML decoder first. Agent and skill files routinely
// carry unquoted colons in descriptions ("Use when: ..."), which YAML rejects,
// so a failed decode falls back to a line scanner that understands the
// key: value, block scalar (| and >) and "- item" list forms.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

var (
	ErrMissing  = errors.New("missing frontmatter")
	ErrUnclosed = errors.New("unclosed frontmatter")
)

// Document is a parsed markdown file.
type Document struct {
	Raw    string
	Fields map[string]string
	// Keys lists top-level keys in order of appearance.
	Keys []string
	Body string
	// BodyLine is the 1-based line on which the body starts.
	BodyLine int
	// Strict is true when the block decoded as YAML.
	Strict bool
}

// Has reports whether key is present with a non-empty value.
func (d *Document) Has(key string) bool {
	v, ok := d.Fields[key]
	return ok && strings.TrimSpace(v) != ""
}

// Get returns the value of key, or "".
func (d *Document) Get(key string) string {
	return d.Fields[key]
}

// Split separates the metadata block from the body without interpreting it.
func Split(content []byte) (raw, body string, bodyLine int, err error) {
	text := normalize(content)
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != Delimiter {
		return "", text, 1, ErrMissing
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == Delimiter {
			raw = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return raw, body, i + 2, nil
		}
	}
	return "", "", 0, ErrUnclosed
}

// Parse splits content and reads the metadata keys.
func Parse(content []byte) (*Document, error) {
	raw, body, bodyLine, err := Split(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Raw: raw, Body: body, BodyLine: bodyLine}
	if keys, fields, ok := decodeYAML(raw); ok {
		doc.Keys, doc.Fields, doc.Strict = keys, fields, true
		return doc, nil
	}
	doc.Keys, doc.Fields = scanLines(raw)
	return doc, nil
}

func normalize(content []byte) string {
	text := strings.TrimPrefix(string(content), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func decodeYAML(raw string) ([]string, map[string]string, bool) {
	fields := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return nil, fields, true
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, nil, false
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, nil, false
	}

	var keys []string
	m := root.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = nodeText(m.Content[i+1])
	}
	return keys, fields, true
}

func nodeText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			parts = append(parts, nodeText(c))
		}
		return strings.Join(parts, ", ")
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeText(n.Alias)
		}
		return ""
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// scanLines is the fallback reader for blocks that are not valid YAML.
func scanLines(raw string) ([]string, map[string]string) {
	fields := make(map[string]string)
	var keys []string

	var (
		current   string
		collected []string
		block     bool // inside a | or > scalar
		list      bool // collecting "- item" lines
	)
	flush := func() {
		if current == "" {
			return
		}
		switch {
		case block:
			fields[current] = strings.TrimSpace(strings.Join(collected, "\n"))
		case list:
			fields[current] = strings.Join(collected, ", ")
		}
		current, collected, block, list = "", nil, false, false
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if block {
				collected = append(collected, "")
			}
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		if !indented && strings.Contains(line, ":") && !strings.HasPrefix(line, "- ") {
			flush()
			key, value, _ := strings.Cut(line, ":")
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if _, dup := fields[key]; !dup {
				keys = append(keys, key)
			}
			switch {
			case strings.HasPrefix(value, "|") || strings.HasPrefix(value, ">"):
				current, block = key, true
				fields[key] = ""
			case value == "":
				current, list = key, true
				fields[key] = ""
			default:
				fields[key] = unquote(value)
			}
			continue
		}

		item := strings.TrimSpace(line)
		switch {
		case block:
			collected = append(collected, item)
		case list && strings.HasPrefix(item, "- "):
			collected = append(collected, unquote(strings.TrimSpace(item[2:])))
		}
	}
	flush()

	return keys, fields
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
