package kpi

import (
	"errors"
	"fmt"
)

var (
	ErrKPINotFound     = errors.New("kpi not found")
	ErrManagerNotFound = errors.New("manager not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrNoApprovalChain = errors.New("employee has no approval chain")
	ErrVersionConflict = errors.New("kpi was modified concurrently")
	ErrInvalidInput    = errors.New("invalid input")
)

func stateError(current, required string) error {
	return fmt.Errorf("%w: status is %q, requires %q", ErrInvalidState, current, required)
}

func inputError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}
