package enums

import "fmt"

// ObligationFieldType describes the value shape a check records for an obligation.
type ObligationFieldType string

const (
	ObligationFieldBoolean ObligationFieldType = "BOOLEAN"
	ObligationFieldDate    ObligationFieldType = "DATE"
	ObligationFieldText    ObligationFieldType = "TEXT"
)

var validObligationFieldTypes = []ObligationFieldType{
	ObligationFieldBoolean,
	ObligationFieldDate,
	ObligationFieldText,
}

// IsValid reports whether the value matches the canonical field type enum.
func (o ObligationFieldType) IsValid() bool {
	for _, candidate := range validObligationFieldTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseObligationFieldType converts the raw string to ObligationFieldType.
func ParseObligationFieldType(value string) (ObligationFieldType, error) {
	for _, candidate := range validObligationFieldTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid obligation field type %q", value)
}
