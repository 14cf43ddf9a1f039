package domain

import (
	"encoding/json"
	"strings"
)

// NormalizeField cleans an upstream text field that may arrive either as a
// plain string or as a {"value": "..."} wrapper. It returns the trimmed text
// and true, or "" and false when the field is absent, empty or of any other
// shape.
func NormalizeField(v any) (string, bool) {
	switch f := v.(type) {
	case string:
		return trimmedOrAbsent(f)
	case *string:
		if f == nil {
			return "", false
		}
		return trimmedOrAbsent(*f)
	case map[string]any:
		s, ok := f["value"].(string)
		if !ok {
			return "", false
		}
		return trimmedOrAbsent(s)
	default:
		return "", false
	}
}

func trimmedOrAbsent(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	return s, true
}

// TextField decodes a string-or-{value} JSON field through NormalizeField.
type TextField struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on an unexpected
// shape; such fields decode as absent.
func (t *TextField) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = TextField{}
		return nil
	}

	t.Value, t.Valid = NormalizeField(raw)

	return nil
}

// MarshalJSON renders the field as a plain string, or null when absent.
func (t TextField) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(t.Value)
}

// String returns the normalized value, "" when absent.
func (t TextField) String() string {
	return t.Value
}
