package enums

import "fmt"

// SubmissionStatus describes the lifecycle state of a compliance submission.
type SubmissionStatus string

const (
	SubmissionStatusDraft       SubmissionStatus = "DRAFT"
	SubmissionStatusSubmitted   SubmissionStatus = "SUBMITTED"
	SubmissionStatusUnderReview SubmissionStatus = "UNDER_REVIEW"
	SubmissionStatusApproved    SubmissionStatus = "APPROVED"
	SubmissionStatusRejected    SubmissionStatus = "REJECTED"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusDraft,
	SubmissionStatusSubmitted,
	SubmissionStatusUnderReview,
	SubmissionStatusApproved,
	SubmissionStatusRejected,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical submission status enum.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further check edits
// without an explicit reopen.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// ParseSubmissionStatus converts the raw string to SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
