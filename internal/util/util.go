// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens text to at most maxRunes runes, marking the cut with an ellipsis.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…"
}

// SingleLine collapses all whitespace runs, including newlines, into single spaces.
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// WrapToWidth wraps text at word boundaries so no line exceeds width runes. Words
// longer than width are split. Blank lines are kept.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		n := 0
		flush := func() {
			if n > 0 {
				out = append(out, cur.String())
				cur.Reset()
				n = 0
			}
		}
		for _, w := range words {
			wLen := utf8.RuneCountInString(w)
			if wLen > width {
				flush()
				r := []rune(w)
				for len(r) > width {
					out = append(out, string(r[:width]))
					r = r[width:]
				}
				cur.WriteString(string(r))
				n = len(r)
				continue
			}
			if n > 0 && n+1+wLen > width {
				flush()
			}
			if n > 0 {
				cur.WriteByte(' ')
				n++
			}
			cur.WriteString(w)
			n += wLen
		}
		flush()
	}
	return strings.Join(out, "\n")
}

// Indent prefixes every non-empty line of text with prefix.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
