package parser

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be located
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ExtractObject returns the first balanced {...} object in text. Braces inside
// JSON strings are ignored. ok is false when text holds no balanced object.
func ExtractObject(text string) (object string, ok bool) {
	cleaned := stripFences(text)
	for start := strings.IndexByte(cleaned, '{'); start >= 0; {
		if end := matchBrace(cleaned, start); end > 0 {
			return cleaned[start : end+1], true
		}
		next := strings.IndexByte(cleaned[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
