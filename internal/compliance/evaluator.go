package compliance

import (
	"encoding/json"
	"time"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

// checkValue is the stored JSON shape of a submission check answer.
type checkValue struct {
	Value      any    `json:"value"`
	ValidUntil string `json:"validUntil,omitempty"`
}

// Violation names one unsatisfied obligation in an evaluation.
type Violation struct {
	ObligationCode string `json:"obligation_code"`
	Title          string `json:"title"`
	Reason         string `json:"reason"`
}

// Evaluation is the derived compliance state of one station. It is
// recomputed on every read and never persisted.
type Evaluation struct {
	Status     enums.ComplianceStatus `json:"status"`
	Violations []Violation            `json:"violations,omitempty"`
}

// Evaluate derives the station badge from its latest submission. A
// missing or still-draft submission yields PENDING_REPORT: the station
// has not reported yet, which is a different problem from a report that
// fails its checks.
func Evaluate(submission *models.Submission, at time.Time) Evaluation {
	if submission == nil || submission.Status == enums.SubmissionStatusDraft {
		return Evaluation{Status: enums.ComplianceStatusPendingReport}
	}

	var violations []Violation
	for i := range submission.Checks {
		check := &submission.Checks[i]
		if v, ok := evaluateCheck(check, at); !ok {
			violations = append(violations, v)
		}
	}

	if len(violations) > 0 {
		return Evaluation{Status: enums.ComplianceStatusNonCompliant, Violations: violations}
	}
	return Evaluation{Status: enums.ComplianceStatusCompliant}
}

func evaluateCheck(check *models.SubmissionCheck, at time.Time) (Violation, bool) {
	code, title, fieldType := checkIdentity(check)

	var parsed checkValue
	if len(check.Value) == 0 || json.Unmarshal(check.Value, &parsed) != nil {
		return Violation{ObligationCode: code, Title: title, Reason: "no value recorded"}, false
	}

	switch fieldType {
	case enums.ObligationFieldBoolean:
		if b, ok := parsed.Value.(bool); ok && b {
			return Violation{}, true
		}
		return Violation{ObligationCode: code, Title: title, Reason: "requirement not met"}, false

	case enums.ObligationFieldDate:
		if parsed.ValidUntil == "" {
			return Violation{ObligationCode: code, Title: title, Reason: "no expiry date recorded"}, false
		}
		validUntil, err := time.Parse("2006-01-02", parsed.ValidUntil)
		if err != nil {
			return Violation{ObligationCode: code, Title: title, Reason: "unreadable expiry date"}, false
		}
		// Valid through the end of the stated day.
		if dayOf(at).After(validUntil) {
			return Violation{ObligationCode: code, Title: title, Reason: "expired on " + parsed.ValidUntil}, false
		}
		return Violation{}, true

	case enums.ObligationFieldText:
		if s, ok := parsed.Value.(string); ok && s != "" {
			return Violation{}, true
		}
		return Violation{ObligationCode: code, Title: title, Reason: "no value recorded"}, false
	}

	return Violation{ObligationCode: code, Title: title, Reason: "unknown obligation type"}, false
}

func checkIdentity(check *models.SubmissionCheck) (code, title string, fieldType enums.ObligationFieldType) {
	if check.Obligation != nil {
		return check.Obligation.Code, check.Obligation.Title, check.Obligation.FieldType
	}
	return check.ObligationID.String(), "", ""
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
