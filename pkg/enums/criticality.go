package enums

import "fmt"

// Criticality ranks how severe a missed obligation is.
type Criticality string

const (
	CriticalityLow    Criticality = "LOW"
	CriticalityMedium Criticality = "MEDIUM"
	CriticalityHigh   Criticality = "HIGH"
)

var validCriticalities = []Criticality{
	CriticalityLow,
	CriticalityMedium,
	CriticalityHigh,
}

// IsValid reports whether the value is a known Criticality.
func (c Criticality) IsValid() bool {
	for _, candidate := range validCriticalities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCriticality converts the raw string to Criticality.
func ParseCriticality(value string) (Criticality, error) {
	for _, candidate := range validCriticalities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid criticality %q", value)
}
