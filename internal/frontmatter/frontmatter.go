// Package frontmatter reads and writes the flat key/value header that may
// prefix a rule file:
//
//	---
//	description: Go style rules
//	alwaysApply: true
//	---
//	Body text
//
// The grammar is intentionally narrow. Values are scalars only (bool, int,
// float64 or string); anything that looks like a list or map is kept as an
// opaque string.
package frontmatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Marker is the line that opens and closes a metadata block.
const Marker = "---"

var (
	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// Document is a parsed rule file.
type Document struct {
	Metadata *Metadata
	Body     string
}

// Parse splits content into metadata and body. It never fails: content
// without a complete block (no opening marker on the first line, or no
// closing marker) is returned whole as the body with empty metadata.
func Parse(content string) Document {
	noMatter := Document{Metadata: NewMetadata(), Body: content}

	first, rest, ok := cutLine(content)
	if !ok || !isMarker(first) {
		return noMatter
	}

	var block []string
	for {
		line, remaining, hasLine := cutLine(rest)
		if !hasLine {
			// reached EOF without a closing marker
			return noMatter
		}
		if isMarker(line) {
			return Document{Metadata: parseBlock(block), Body: remaining}
		}
		block = append(block, line)
		rest = remaining
	}
}

// Serialize renders metadata followed by body. Empty metadata renders the
// body alone.
func Serialize(md *Metadata, body string) string {
	if md.Len() == 0 {
		return body
	}

	var sb strings.Builder
	sb.WriteString(Marker + "\n")
	md.Each(func(key string, value any) {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(formatValue(value))
		sb.WriteString("\n")
	})
	sb.WriteString(Marker + "\n")
	sb.WriteString(body)
	return sb.String()
}

// cutLine returns the first line of s (without its terminator) and the text
// after the terminator. ok is false when s is empty. A final line without a
// newline is still returned.
func cutLine(s string) (line, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return strings.TrimSuffix(s, "\r"), "", true
	}
	return strings.TrimSuffix(s[:idx], "\r"), s[idx+1:], true
}

// isMarker reports whether line is exactly the marker. cutLine has already
// removed a trailing carriage return.
func isMarker(line string) bool {
	return line == Marker
}

func parseBlock(lines []string) *Metadata {
	md := NewMetadata()
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		md.Set(key, ParseValue(strings.TrimSpace(value)))
	}
	return md
}

// ParseValue types a raw scalar. Precedence: bool, int, float, string.
func ParseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if intPattern.MatchString(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return unquote(raw)
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		// keep the dot so the value reads back as a float
		if intPattern.MatchString(s) {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
