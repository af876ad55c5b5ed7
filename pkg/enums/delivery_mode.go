package enums

import (
	"fmt"
	"strings"
)

// DeliveryMode captures how the finished order reaches the client.
type DeliveryMode string

const (
	DeliveryModePickup         DeliveryMode = "pickup"
	DeliveryModeCarrierManaged DeliveryMode = "carrier_managed"
	DeliveryModeClientCarrier  DeliveryMode = "client_carrier"
	DeliveryModeCourier        DeliveryMode = "courier"
)

var validDeliveryModes = []DeliveryMode{
	DeliveryModePickup,
	DeliveryModeCarrierManaged,
	DeliveryModeClientCarrier,
	DeliveryModeCourier,
}

// String implements fmt.Stringer.
func (d DeliveryMode) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DeliveryMode) IsValid() bool {
	for _, candidate := range validDeliveryModes {
		if candidate == d {
			return true
		}
	}
	return false
}

// UsesCarrier reports whether the mode includes carrier shipping billed on
// the quote. Pickup and client-arranged carriers never carry a shipping cost.
func (d DeliveryMode) UsesCarrier() bool {
	return d == DeliveryModeCarrierManaged || d == DeliveryModeCourier
}

// ParseDeliveryMode converts raw input into a DeliveryMode.
func ParseDeliveryMode(value string) (DeliveryMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDeliveryModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery mode %q", value)
}
