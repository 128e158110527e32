package simplify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONArray returns the first balanced [...] span in text. Brackets
// inside JSON string literals are ignored. The span must be valid JSON.
func ExtractJSONArray(text string) (string, error) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON array found", ErrInvalidModelOutput)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				span := text[start : i+1]
				if !json.Valid([]byte(span)) {
					return "", fmt.Errorf("%w: array is not valid JSON", ErrInvalidModelOutput)
				}
				return span, nil
			}
		}
	}
	return "", fmt.Errorf("%w: unterminated JSON array", ErrInvalidModelOutput)
}

// DecodeJSONArray extracts the first JSON array from text and decodes it into []T.
func DecodeJSONArray[T any](text string) ([]T, error) {
	span, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModelOutput, err)
	}
	return out, nil
}
