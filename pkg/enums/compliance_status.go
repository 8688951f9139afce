package enums

// ComplianceStatus is the derived per-station state reported by the evaluator.
// PENDING_REPORT is a badge, not a violation: it means no submission exists
// for the required period, which is distinct from a failed check.
type ComplianceStatus string

const (
	ComplianceStatusCompliant     ComplianceStatus = "COMPLIANT"
	ComplianceStatusNonCompliant  ComplianceStatus = "NON_COMPLIANT"
	ComplianceStatusPendingReport ComplianceStatus = "PENDING_REPORT"
)

var validComplianceStatuses = []ComplianceStatus{
	ComplianceStatusCompliant,
	ComplianceStatusNonCompliant,
	ComplianceStatusPendingReport,
}

// String implements fmt.Stringer.
func (c ComplianceStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComplianceStatus.
func (c ComplianceStatus) IsValid() bool {
	for _, candidate := range validComplianceStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}
