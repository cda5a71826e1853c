package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList persists a string slice as a JSON array column. It works against
// both postgres jsonb and sqlite text columns.
type StringList []string

// Value serializes the list to JSON.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON array into the list.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = decoded
	return nil
}

// First returns the first entry or an empty string.
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// IntList persists an int slice as a JSON array column.
type IntList []int

// Value serializes the list to JSON.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON array into the list.
func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []int
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("int list: %w", err)
	}
	*l = decoded
	return nil
}

// Contains reports whether v is present.
func (l IntList) Contains(v int) bool {
	for _, candidate := range l {
		if candidate == v {
			return true
		}
	}
	return false
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
