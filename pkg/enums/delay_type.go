package enums

import (
	"fmt"
	"strings"
)

// DelayType distinguishes standard lead times from express delivery.
type DelayType string

const (
	DelayTypeStandard DelayType = "standard"
	DelayTypeExpress  DelayType = "express"
)

var validDelayTypes = []DelayType{
	DelayTypeStandard,
	DelayTypeExpress,
}

// String implements fmt.Stringer.
func (d DelayType) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DelayType) IsValid() bool {
	for _, candidate := range validDelayTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDelayType converts raw input into a DelayType.
func ParseDelayType(value string) (DelayType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDelayTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delay type %q", value)
}
