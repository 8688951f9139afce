package compliance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fuelguard/fuelguard-backend/pkg/db/models"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
)

func checkWith(t *testing.T, code string, fieldType enums.ObligationFieldType, value any, validUntil string) models.SubmissionCheck {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"value": value, "validUntil": validUntil})
	if err != nil {
		t.Fatalf("marshal check value: %v", err)
	}
	return models.SubmissionCheck{
		ID:           uuid.New(),
		ObligationID: uuid.New(),
		Value:        datatypes.JSON(raw),
		Obligation: &models.Obligation{
			Code:      code,
			Title:     code + " title",
			FieldType: fieldType,
		},
	}
}

func TestEvaluateNilSubmissionIsPendingReport(t *testing.T) {
	got := Evaluate(nil, time.Now())
	if got.Status != enums.ComplianceStatusPendingReport {
		t.Fatalf("status %s, want PENDING_REPORT", got.Status)
	}
	if len(got.Violations) != 0 {
		t.Fatalf("pending report carried %d violations", len(got.Violations))
	}
}

func TestEvaluateDraftIsPendingReport(t *testing.T) {
	submission := &models.Submission{
		Status: enums.SubmissionStatusDraft,
		Checks: []models.SubmissionCheck{checkWith(t, "OBL-001", enums.ObligationFieldBoolean, true, "")},
	}
	got := Evaluate(submission, time.Now())
	if got.Status != enums.ComplianceStatusPendingReport {
		t.Fatalf("status %s, want PENDING_REPORT", got.Status)
	}
}

func TestEvaluateAllChecksSatisfied(t *testing.T) {
	at := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	submission := &models.Submission{
		Status: enums.SubmissionStatusApproved,
		Checks: []models.SubmissionCheck{
			checkWith(t, "OBL-001", enums.ObligationFieldBoolean, true, ""),
			checkWith(t, "OBL-002", enums.ObligationFieldDate, nil, "2026-06-30"),
			checkWith(t, "OBL-003", enums.ObligationFieldText, "ISO 9001:2015", ""),
		},
	}
	got := Evaluate(submission, at)
	if got.Status != enums.ComplianceStatusCompliant {
		t.Fatalf("status %s, want COMPLIANT (violations: %+v)", got.Status, got.Violations)
	}
}

func TestEvaluateExpiredDateObligation(t *testing.T) {
	// A certificate that lapsed in 2023 must flag the station when the
	// badge is computed years later.
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	submission := &models.Submission{
		Status: enums.SubmissionStatusSubmitted,
		Checks: []models.SubmissionCheck{
			checkWith(t, "OBL-002", enums.ObligationFieldDate, nil, "2023-01-01"),
		},
	}

	got := Evaluate(submission, at)
	if got.Status != enums.ComplianceStatusNonCompliant {
		t.Fatalf("status %s, want NON_COMPLIANT", got.Status)
	}
	if len(got.Violations) != 1 {
		t.Fatalf("got %d violations, want 1", len(got.Violations))
	}
	v := got.Violations[0]
	if v.ObligationCode != "OBL-002" {
		t.Errorf("violation names %s, want OBL-002", v.ObligationCode)
	}
	if v.Reason != "expired on 2023-01-01" {
		t.Errorf("violation reason %q", v.Reason)
	}
}

func TestEvaluateDateValidThroughStatedDay(t *testing.T) {
	submission := &models.Submission{
		Status: enums.SubmissionStatusSubmitted,
		Checks: []models.SubmissionCheck{
			checkWith(t, "OBL-002", enums.ObligationFieldDate, nil, "2026-03-10"),
		},
	}

	onTheDay := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	if got := Evaluate(submission, onTheDay); got.Status != enums.ComplianceStatusCompliant {
		t.Fatalf("on expiry day: status %s, want COMPLIANT", got.Status)
	}

	dayAfter := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	if got := Evaluate(submission, dayAfter); got.Status != enums.ComplianceStatusNonCompliant {
		t.Fatalf("day after expiry: status %s, want NON_COMPLIANT", got.Status)
	}
}

func TestEvaluateUnansweredChecks(t *testing.T) {
	at := time.Now()
	cases := []struct {
		name  string
		check models.SubmissionCheck
	}{
		{"boolean false", checkWith(t, "OBL-001", enums.ObligationFieldBoolean, false, "")},
		{"date without expiry", checkWith(t, "OBL-002", enums.ObligationFieldDate, nil, "")},
		{"empty text", checkWith(t, "OBL-003", enums.ObligationFieldText, "", "")},
		{"no value at all", models.SubmissionCheck{ObligationID: uuid.New(), Obligation: &models.Obligation{Code: "OBL-004", FieldType: enums.ObligationFieldBoolean}}},
	}
	for _, tc := range cases {
		submission := &models.Submission{
			Status: enums.SubmissionStatusSubmitted,
			Checks: []models.SubmissionCheck{tc.check},
		}
		got := Evaluate(submission, at)
		if got.Status != enums.ComplianceStatusNonCompliant {
			t.Errorf("%s: status %s, want NON_COMPLIANT", tc.name, got.Status)
		}
	}
}

func TestEvaluateMixedChecksReportsOnlyFailures(t *testing.T) {
	at := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)
	submission := &models.Submission{
		Status: enums.SubmissionStatusUnderReview,
		Checks: []models.SubmissionCheck{
			checkWith(t, "OBL-001", enums.ObligationFieldBoolean, true, ""),
			checkWith(t, "OBL-002", enums.ObligationFieldDate, nil, "2025-12-31"),
			checkWith(t, "OBL-003", enums.ObligationFieldText, "on file", ""),
		},
	}
	got := Evaluate(submission, at)
	if got.Status != enums.ComplianceStatusNonCompliant {
		t.Fatalf("status %s, want NON_COMPLIANT", got.Status)
	}
	if len(got.Violations) != 1 || got.Violations[0].ObligationCode != "OBL-002" {
		t.Fatalf("violations %+v, want only OBL-002", got.Violations)
	}
}
