package health

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrNoActiveLoyaltyCard = errors.New("no active loyalty card")
	ErrServiceDisabled     = errors.New("device health service disabled")
	ErrPlatformDisabled    = errors.New("platform monitoring disabled")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrAlertNotActionable  = errors.New("alert is not actionable")
	ErrAlertExpired        = errors.New("alert expired")
)

const (
	ReasonCustomerNotFound    = "customer_not_found"
	ReasonNoActiveLoyaltyCard = "no_active_loyalty_card"
	ReasonServiceDisabled     = "service_disabled"
	ReasonPlatformDisabled    = "platform_disabled"
)

// AccessError is returned when the access gate turns a customer away.
type AccessError struct {
	Reason string
	Err    error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied (%s): %v", e.Reason, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func denied(reason string, err error) *AccessError {
	return &AccessError{Reason: reason, Err: err}
}

// Reason returns the access reason code carried by err, or "".
func Reason(err error) string {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return ""
}

func validationError(issues any) error {
	return fmt.Errorf("%w: %v", ErrValidation, issues)
}
