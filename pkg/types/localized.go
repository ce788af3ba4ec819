package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// LocalizedString holds the site's three supported translations of one value.
// Persisted as a JSONB column.
type LocalizedString struct {
	En string `json:"en"`
	Es string `json:"es"`
	Pt string `json:"pt"`
}

// IsZero reports whether no translation is present.
func (l LocalizedString) IsZero() bool {
	return l.En == "" && l.Es == "" && l.Pt == ""
}

func (l LocalizedString) Value() (driver.Value, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("localized string: %w", err)
	}
	return string(raw), nil
}

func (l *LocalizedString) Scan(value interface{}) error {
	if value == nil {
		*l = LocalizedString{}
		return nil
	}
	raw, ok := toJSONBytes(value)
	if !ok {
		return fmt.Errorf("localized string: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, l)
}

// StringList is a JSONB-persisted list of strings (keywords, platforms, stacks).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("string list: %w", err)
	}
	return string(raw), nil
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	raw, ok := toJSONBytes(value)
	if !ok {
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, s)
}

// Contains reports whether the list holds value, ignoring case.
func (s StringList) Contains(value string) bool {
	for _, item := range s {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

func toJSONBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
