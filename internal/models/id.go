package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a backend identifier that may arrive as a JSON string or number.
// It re-encodes in the shape it was received.
type ID struct {
	value   string
	numeric bool
}

// StringID builds an identifier from a string value.
func StringID(value string) ID {
	return ID{value: strings.TrimSpace(value)}
}

// String returns the identifier text, empty when absent.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether the identifier is missing.
func (id ID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON encodes the identifier as a number when it was received as one.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ID{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}
