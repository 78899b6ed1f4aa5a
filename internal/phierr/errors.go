// Package phierr defines the error kinds returned by the Φ engine.
// Callers match kinds with errors.Is against the sentinels below, or read
// the kind directly with KindOf.
package phierr

import (
	"errors"
	"fmt"
)

// #region kinds
// Kind classifies an engine failure.
type Kind string

const (
	InvalidTPM               Kind = "invalid_tpm"
	InvalidConnectivity      Kind = "invalid_connectivity"
	InvalidState             Kind = "invalid_state"
	DimensionMismatch        Kind = "dimension_mismatch"
	InvalidPartition         Kind = "invalid_partition"
	Incompatible             Kind = "incompatible"
	ZeroMass                 Kind = "zero_mass"
	SingularMatrix           Kind = "singular_matrix"
	NumericalInstability     Kind = "numerical_instability"
	EMDError                 Kind = "emd_error"
	SystemTooLarge           Kind = "system_too_large"
	Timeout                  Kind = "timeout"
	ApproximationUnavailable Kind = "approximation_unavailable"
	ConfigError              Kind = "config_error"
)

// Class groups kinds by who is expected to act on them.
type Class string

const (
	ClassValidation    Class = "validation"
	ClassNumerical     Class = "numerical"
	ClassCapacity      Class = "capacity"
	ClassConfiguration Class = "configuration"
)

// Class returns the taxonomy class for k.
func (k Kind) Class() Class {
	switch k {
	case SingularMatrix, NumericalInstability, EMDError, ZeroMass:
		return ClassNumerical
	case SystemTooLarge, Timeout:
		return ClassCapacity
	case ConfigError, ApproximationUnavailable:
		return ClassConfiguration
	default:
		return ClassValidation
	}
}

// #endregion kinds

// #region error
// Error is an engine failure of a given kind with a message naming the quantities involved.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return "phi: " + string(e.Kind) + ": " + e.Msg
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// #endregion error

// #region sentinels
var (
	ErrInvalidTPM               = &Error{Kind: InvalidTPM, Msg: "invalid transition probability matrix"}
	ErrInvalidConnectivity      = &Error{Kind: InvalidConnectivity, Msg: "invalid connectivity matrix"}
	ErrInvalidState             = &Error{Kind: InvalidState, Msg: "invalid state"}
	ErrDimensionMismatch        = &Error{Kind: DimensionMismatch, Msg: "dimension mismatch"}
	ErrInvalidPartition         = &Error{Kind: InvalidPartition, Msg: "invalid partition"}
	ErrIncompatible             = &Error{Kind: Incompatible, Msg: "incompatible repertoires"}
	ErrZeroMass                 = &Error{Kind: ZeroMass, Msg: "distribution has zero mass"}
	ErrSingularMatrix           = &Error{Kind: SingularMatrix, Msg: "singular matrix"}
	ErrNumericalInstability     = &Error{Kind: NumericalInstability, Msg: "numerical instability"}
	ErrEMD                      = &Error{Kind: EMDError, Msg: "transport infeasible"}
	ErrSystemTooLarge           = &Error{Kind: SystemTooLarge, Msg: "system too large"}
	ErrTimeout                  = &Error{Kind: Timeout, Msg: "time budget exceeded"}
	ErrApproximationUnavailable = &Error{Kind: ApproximationUnavailable, Msg: "approximation unavailable"}
	ErrConfig                   = &Error{Kind: ConfigError, Msg: "invalid configuration"}
)

// #endregion sentinels
