package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value; a non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// Markdown fences, surrounding prose, comments and ".5"-style numbers are
// tolerated; unknown fields are ignored but wrong field types fail.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var result T
	if err := decodeBlock(raw, '{', '}', &result); err != nil {
		return result, err
	}
	if validator != nil {
		if err := validator(result); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// ExtractJSONArray decodes the first JSON array in raw model output. An
// array wrapped in an object ({"items": [...]}) is found as well.
func ExtractJSONArray[T any](raw string, validator SchemaValidator[[]T]) ([]T, error) {
	var result []T
	if err := decodeBlock(raw, '[', ']', &result); err != nil {
		return nil, err
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return nil, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

func decodeBlock(raw string, opener, closer byte, dst any) error {
	block := balancedBlock(dropFenceLines(raw), opener, closer)
	if block == "" {
		kind := "object"
		if opener == '[' {
			kind = "array"
		}
		return fmt.Errorf("%w: no JSON %s found in response", ErrInvalidOutput, kind)
	}
	if err := json.Unmarshal([]byte(repairJSON(block)), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}

// dropFenceLines removes ``` lines, keeping what they enclose.
func dropFenceLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// jsonScanner walks a JSON-ish text and tracks whether the current byte sits
// inside a string literal.
type jsonScanner struct {
	inString bool
	escaped  bool
}

// structural reports whether c, read at the current position, is outside
// any string literal, updating the scanner state.
func (sc *jsonScanner) structural(c byte) bool {
	switch {
	case sc.escaped:
		sc.escaped = false
		return false
	case sc.inString && c == '\\':
		sc.escaped = true
		return false
	case c == '"':
		sc.inString = !sc.inString
		return false
	}
	return !sc.inString
}

// balancedBlock returns the first opener...closer span whose brackets
// balance outside string literals, or "".
func balancedBlock(s string, opener, closer byte) string {
	start := strings.IndexByte(s, opener)
	if start < 0 {
		return ""
	}
	var sc jsonScanner
	depth := 0
	for i := start; i < len(s); i++ {
		if !sc.structural(s[i]) {
			continue
		}
		switch s[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON drops // and /* */ comments and rewrites ".8" or "-.3" as
// "0.8" and "-0.3", all outside string literals.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var sc jsonScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !sc.structural(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return b.String()
				}
				i += 2 + end + 1
				continue
			}
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastNonSpace(s[:i])) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func startsNumber(prev byte) bool {
	return prev == 0 || strings.IndexByte(":,[{-", prev) >= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
