package traceview

import (
	"errors"
	"fmt"
)

var ErrMalformedTrace = errors.New("malformed trace")

type MalformedKind uint8

const (
	// An End event with no open interval.
	StackUnderflow MalformedKind = iota + 1
	// A Begin event nested deeper than Config.MaxStackDepth.
	StackOverflow
	// An End event whose ID doesn't match the innermost open interval.
	IDMismatch
)

func (k MalformedKind) String() string {
	switch k {
	case StackUnderflow:
		return "stack underflow"
	case StackOverflow:
		return "stack overflow"
	case IDMismatch:
		return "ID mismatch"
	default:
		return fmt.Sprintf("MalformedKind(%d)", k)
	}
}

// MalformedTraceError describes why a capture couldn't be turned into intervals.
type MalformedTraceError struct {
	Kind MalformedKind
	// Index of the offending event in the input.
	Index int
	// ID of the offending event.
	ID uint64
	// ID of the innermost open interval, for IDMismatch.
	Open uint64
	// Depth of the stack when the error occurred.
	Depth int
}

func (err *MalformedTraceError) Error() string {
	switch err.Kind {
	case IDMismatch:
		return fmt.Sprintf("malformed trace: event %d ends %#x but %#x is open", err.Index, err.ID, err.Open)
	case StackOverflow:
		return fmt.Sprintf("malformed trace: event %d begins %#x beyond maximum depth %d", err.Index, err.ID, err.Depth)
	default:
		return fmt.Sprintf("malformed trace: event %d: %s", err.Index, err.Kind)
	}
}

func (err *MalformedTraceError) Is(target error) bool {
	return target == ErrMalformedTrace
}
