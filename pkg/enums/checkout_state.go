package enums

import "fmt"

// CheckoutState is the linear submission state machine a profile moves through.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "idle"
	CheckoutStateReviewing  CheckoutState = "reviewing"
	CheckoutStateSubmitting CheckoutState = "submitting"
	CheckoutStateSucceeded  CheckoutState = "succeeded"
	CheckoutStateFailed     CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateReviewing,
	CheckoutStateSubmitting,
	CheckoutStateSucceeded,
	CheckoutStateFailed,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
