package component

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// jsKey renders an object key, quoting it unless it is a bare identifier.
func jsKey(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	return jsString(name)
}

func objectLiteral(pairs [][2]string) string {
	if len(pairs) == 0 {
		return "{}"
	}
	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = jsKey(pair[0]) + ": " + pair[1]
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// camelCase joins dash-separated words: "stroke-width" -> "strokeWidth".
func camelCase(name string) string {
	words := strings.Split(name, "-")
	var b strings.Builder
	for i, word := range words {
		if word == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(word)
			continue
		}
		b.WriteString(upperFirst(word))
	}
	return b.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
