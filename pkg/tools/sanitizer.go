package tools

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is the per-string argument limit in bytes.
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
// A limit of zero or less means DefaultMaxInputSize.
func SanitizeInput(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// sanitizeArgs returns a copy of the argument bag with every string (top
// level or inside a list) sanitized. Other values pass through.
func sanitizeArgs(args map[string]any, limit int) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for key, value := range args {
		switch v := value.(type) {
		case string:
			clean, err := SanitizeInput(v, limit)
			if err != nil {
				return nil, Errorf(CodeInvalidParams, "invalid argument %s: %v", key, err)
			}
			out[key] = clean
		case []any:
			items := make([]any, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					items[i] = item
					continue
				}
				clean, err := SanitizeInput(s, limit)
				if err != nil {
					return nil, Errorf(CodeInvalidParams, "invalid argument %s[%d]: %v", key, i, err)
				}
				items[i] = clean
			}
			out[key] = items
		default:
			out[key] = value
		}
	}
	return out, nil
}
