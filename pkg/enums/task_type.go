package enums

import "fmt"

// TaskType separates follow-up actions from sanctions.
type TaskType string

const (
	TaskTypeAction   TaskType = "ACTION"
	TaskTypeSanction TaskType = "SANCTION"
)

var validTaskTypes = []TaskType{
	TaskTypeAction,
	TaskTypeSanction,
}

// IsValid reports whether the value is a known TaskType.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts the raw string to TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}
