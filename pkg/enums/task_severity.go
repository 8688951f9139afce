package enums

import "fmt"

// TaskSeverity grades the impact of a task or sanction.
type TaskSeverity string

const (
	TaskSeverityMinor    TaskSeverity = "MINOR"
	TaskSeverityMajor    TaskSeverity = "MAJOR"
	TaskSeverityCritical TaskSeverity = "CRITICAL"
)

var validTaskSeverities = []TaskSeverity{
	TaskSeverityMinor,
	TaskSeverityMajor,
	TaskSeverityCritical,
}

// IsValid reports whether the value is a known TaskSeverity.
func (t TaskSeverity) IsValid() bool {
	for _, candidate := range validTaskSeverities {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskSeverity converts the raw string to TaskSeverity.
func ParseTaskSeverity(value string) (TaskSeverity, error) {
	for _, candidate := range validTaskSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task severity %q", value)
}
