package collection

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/scout/pkg/domain"
)

// Record is one row of a snapshot.
type Record map[string]any

// DecodeRecords parses a snapshot body holding a single record, an array of
// records or newline-delimited records. An empty array is a valid, empty
// result; an empty body is domain.ErrEmptySnapshot.
func DecodeRecords(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, domain.ErrEmptySnapshot
	}

	switch trimmed[0] {
	case '[':
		records := []Record{}
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("malformed snapshot: %w", err)
		}
		return records, nil
	case '{':
		var single Record
		if err := json.Unmarshal(trimmed, &single); err == nil {
			return []Record{single}, nil
		}
	}

	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("malformed snapshot: %w", err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return records, nil
}

// String returns the first non-empty string value among keys.
// Numbers are rendered without a fractional part when integral.
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v == float64(int64(v)) {
				return fmt.Sprintf("%d", int64(v))
			}
			return fmt.Sprintf("%g", v)
		}
	}
	return ""
}

// Int returns the first numeric value among keys.
func (r Record) Int(keys ...string) int {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

// Strings returns the first list-of-strings value among keys.
// A plain string is returned as a one-element list.
func (r Record) Strings(keys ...string) []string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return []string{v}
			}
		}
	}
	return nil
}
