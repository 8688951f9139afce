package enums

import "fmt"

// TaskStatus tracks the company/customs ping-pong on a task.
type TaskStatus string

const (
	TaskStatusAwaitingCompany  TaskStatus = "AWAITING_COMPANY"
	TaskStatusCompanyResponded TaskStatus = "COMPANY_RESPONDED"
	TaskStatusInReview         TaskStatus = "IN_REVIEW"
	TaskStatusClosed           TaskStatus = "CLOSED"
	TaskStatusEscalated        TaskStatus = "ESCALATED"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusAwaitingCompany,
	TaskStatusCompanyResponded,
	TaskStatusInReview,
	TaskStatusClosed,
	TaskStatusEscalated,
}

// IsValid reports whether the value is a known TaskStatus.
func (t TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the linear workflow (or an escalation)
// permits moving from t to next. ESCALATED is reachable from any open status.
func (t TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if t == TaskStatusClosed {
		return false
	}
	if next == TaskStatusEscalated {
		return true
	}
	switch t {
	case TaskStatusAwaitingCompany:
		return next == TaskStatusCompanyResponded
	case TaskStatusCompanyResponded:
		return next == TaskStatusInReview
	case TaskStatusInReview:
		return next == TaskStatusClosed
	case TaskStatusEscalated:
		return next == TaskStatusInReview || next == TaskStatusClosed
	}
	return false
}

// ParseTaskStatus converts the raw string to TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}
