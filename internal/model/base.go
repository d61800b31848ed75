package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RecordStatus is the soft-delete flag carried by archived-relevant rows.
// It is distinct from a task's workflow status: rows are never physically
// removed from the active store, they are marked deleted instead.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusInactive RecordStatus = "inactive"
	RecordStatusDeleted  RecordStatus = "deleted"
)

// Unassigned is the sentinel assignee value meaning "nobody yet".
const Unassigned = "Unassigned"

// StringList stores an ordered list of names as JSON in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
}

// Assigned reports whether the list names at least one real assignee,
// i.e. it is non-empty and not just the Unassigned sentinel.
func (l StringList) Assigned() bool {
	for _, name := range l {
		name = strings.TrimSpace(name)
		if name != "" && name != Unassigned {
			return true
		}
	}
	return false
}

// Equal compares two lists element-wise.
func (l StringList) Equal(other StringList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}
