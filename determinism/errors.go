package determinism

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crytic/hypcheck/compilation/baseline"
	"github.com/crytic/hypcheck/compilation/types"
)

// MissingFieldError is returned when a response at Iteration is absent or lacks a field on the path to the target
// bytecode.
type MissingFieldError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Field is the path of the absent field.
	Field string
}

// Error returns the error message string, implementing the `error` interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("iteration %d: compiler response is missing %s", e.Iteration, e.Field)
}

// MalformedFieldError is returned when a response at Iteration is JSON but holds a value of the wrong type.
type MalformedFieldError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Field is the dotted path of the malformed field, or "response" for the top-level value.
	Field string

	// Value is the JSON type that was found.
	Value string
}

// Error returns the error message string, implementing the `error` interface.
func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("iteration %d: compiler response field %s is malformed (found a %s)", e.Iteration, e.Field, e.Value)
}

// EmptyBytecodeError is returned when the bytecode object at Iteration is present but empty.
type EmptyBytecodeError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Field is the path of the empty bytecode object.
	Field string
}

// Error returns the error message string, implementing the `error` interface.
func (e *EmptyBytecodeError) Error() string {
	return fmt.Sprintf("iteration %d: %s is empty", e.Iteration, e.Field)
}

// BytecodeMismatchError is returned when the bytecode at Iteration differs from the bytecode of the first iteration.
type BytecodeMismatchError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Variant describes how the input of Iteration was derived from the reference input. It is empty for repeated
	// submissions of the reference input.
	Variant string

	// Expected is the digest of the reference bytecode.
	Expected string

	// Actual is the digest of the bytecode produced at Iteration.
	Actual string

	// ExpectedLength and ActualLength are the byte lengths of the reference and offending bytecode.
	ExpectedLength int
	ActualLength   int

	// FirstDifference is the byte offset of the first difference, or the shorter length if one bytecode is a prefix
	// of the other.
	FirstDifference int

	// MetadataOnly is set when both bytecodes are identical once their trailing metadata sections are removed.
	MetadataOnly bool

	// ExpectedMetadataHash and ActualMetadataHash are the hex-encoded bytecode hashes recorded in the metadata
	// sections. They are only set for metadata-only mismatches.
	ExpectedMetadataHash string
	ActualMetadataHash   string

	// MetadataCompilerVersion is the compiler version recorded in the reference metadata, if any.
	MetadataCompilerVersion string
}

// Error returns the error message string, implementing the `error` interface.
func (e *BytecodeMismatchError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("iteration %d: bytecode differs from iteration 0", e.Iteration))
	if e.Variant != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Variant))
	}
	sb.WriteString(fmt.Sprintf(": expected %s (%d bytes), got %s (%d bytes), first difference at byte %d",
		e.Expected, e.ExpectedLength, e.Actual, e.ActualLength, e.FirstDifference))
	if e.MetadataOnly {
		sb.WriteString(", code is identical outside the metadata section")
		if e.ExpectedMetadataHash != "" || e.ActualMetadataHash != "" {
			sb.WriteString(fmt.Sprintf(" (metadata hash %s, got %s)", e.ExpectedMetadataHash, e.ActualMetadataHash))
		}
		if e.MetadataCompilerVersion != "" {
			sb.WriteString(fmt.Sprintf(", embedded compiler version %s", e.MetadataCompilerVersion))
		}
	}
	return sb.String()
}

// CompilerDiagnosticsError is returned when the response at Iteration carries error-severity diagnostics.
type CompilerDiagnosticsError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Errors are the error-severity diagnostics.
	Errors []types.CompilerError
}

// Error returns the error message string, implementing the `error` interface.
func (e *CompilerDiagnosticsError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, compilerErr := range e.Errors {
		messages[i] = compilerErr.String()
	}
	return fmt.Sprintf("iteration %d: compilation failed with %d error(s):\n%s", e.Iteration, len(e.Errors), strings.Join(messages, "\n"))
}

// EntryPointError is returned when the compilation entry point itself fails at Iteration, or returns output that is
// not JSON.
type EntryPointError struct {
	// Iteration is the 0-based index of the offending compilation.
	Iteration int

	// Err is the underlying failure.
	Err error
}

// Error returns the error message string, implementing the `error` interface.
func (e *EntryPointError) Error() string {
	return fmt.Sprintf("iteration %d: compilation entry point failed: %v", e.Iteration, e.Err)
}

// Unwrap returns the underlying failure.
func (e *EntryPointError) Unwrap() error {
	return e.Err
}

// IsCheckFailure reports whether err means the compiler violated the determinism property, as opposed to the check
// being unable to run.
func IsCheckFailure(err error) bool {
	var missingFieldErr *MissingFieldError
	var malformedFieldErr *MalformedFieldError
	var emptyBytecodeErr *EmptyBytecodeError
	var mismatchErr *BytecodeMismatchError
	var diagnosticsErr *CompilerDiagnosticsError
	var baselineErr *baseline.MismatchError
	return errors.As(err, &missingFieldErr) ||
		errors.As(err, &malformedFieldErr) ||
		errors.As(err, &emptyBytecodeErr) ||
		errors.As(err, &mismatchErr) ||
		errors.As(err, &diagnosticsErr) ||
		errors.As(err, &baselineErr)
}
