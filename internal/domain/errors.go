package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// PermissionError signals an ownership violation (acting on someone else's
// listing, review, or booking).
type PermissionError struct {
	Resource string
	Msg      string
}

func (e PermissionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Resource != "" {
		return fmt.Sprintf("not allowed to modify this %s", e.Resource)
	}
	return "permission denied"
}

// ConflictError covers invalid state transitions, e.g. canceling a booking
// that is already confirmed.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// PaymentInitiationError: the gateway could not be reached or rejected the
// initialize call while creating a booking. The booking stays pending.
type PaymentInitiationError struct {
	Reference string
	Err       error
}

func (e PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed for %s", e.Reference)
}

func (e PaymentInitiationError) Unwrap() error { return e.Err }

// PaymentNotSuccessfulError: the gateway was reachable and reported the
// payment as anything other than successful. A decline is a final answer; an
// unreachable gateway is not, so that case is VerificationUnavailableError.
type PaymentNotSuccessfulError struct {
	Reference string
	Status    string
}

func (e PaymentNotSuccessfulError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("payment for %s not successful (status %q)", e.Reference, e.Status)
	}
	return fmt.Sprintf("payment for %s not successful", e.Reference)
}

// VerificationUnavailableError: the verify call itself failed (transport,
// non-2xx, malformed body). Safe to retry later; the booking stays pending.
type VerificationUnavailableError struct {
	Reference string
	Err       error
}

func (e VerificationUnavailableError) Error() string {
	return fmt.Sprintf("could not verify payment for %s", e.Reference)
}

func (e VerificationUnavailableError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsPermission(err error) bool {
	var target PermissionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsPaymentInitiation(err error) bool {
	var target PaymentInitiationError
	return errors.As(err, &target)
}

func IsPaymentNotSuccessful(err error) bool {
	var target PaymentNotSuccessfulError
	return errors.As(err, &target)
}

func IsVerificationUnavailable(err error) bool {
	var target VerificationUnavailableError
	return errors.As(err, &target)
}
