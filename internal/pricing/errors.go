package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies why a line item could not be priced.
type ErrorKind string

const (
	// KindNoMatchingQuantityRange means the quantity falls outside every
	// configured bracket of the technique's tariff.
	KindNoMatchingQuantityRange ErrorKind = "no_matching_quantity_range"
	// KindUnknownDimension means the technique-specific secondary key (print
	// size, option id) has no tariff entry.
	KindUnknownDimension ErrorKind = "unknown_dimension"
	// KindPriceNotConfigured means range and dimension both resolved but the
	// combination carries no price. Distinct from a legitimate price of 0.
	KindPriceNotConfigured ErrorKind = "price_not_configured"
	// KindInvalidQuantity means the line's total quantity is non-positive or
	// disagrees with its size grid.
	KindInvalidQuantity ErrorKind = "invalid_quantity"
	// KindInvalidDelay means the requested lead time is below the allowed
	// minimum or express days is non-positive.
	KindInvalidDelay ErrorKind = "invalid_delay"
)

// Error is a structured pricing failure: the kind, the offending line item
// and the offending lookup key, so a caller can highlight the exact failing
// input instead of guessing from a message.
type Error struct {
	Kind   ErrorKind
	ItemID uuid.UUID
	Key    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ItemID == uuid.Nil {
		return fmt.Sprintf("pricing: %s (%s)", e.Kind, e.Key)
	}
	return fmt.Sprintf("pricing: %s for item %s (%s)", e.Kind, e.ItemID, e.Key)
}

// Is allows matching on the kind via errors.Is with a sentinel &Error{Kind: k}.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

func newError(kind ErrorKind, itemID uuid.UUID, key string) *Error {
	return &Error{Kind: kind, ItemID: itemID, Key: key}
}

// AsError extracts a structured pricing error from an error chain.
func AsError(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}
