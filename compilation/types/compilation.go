package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned by ParseCompilationResult when the compiler produced no output, or a JSON null.
var ErrEmptyResponse = errors.New("compiler returned an empty response")

// CompilationResult represents the standard-JSON output of a compilation.
type CompilationResult struct {
	// Contracts maps a source unit name to a mapping of contract names to their compiled artifacts. A nil map means
	// the response carried no "contracts" field.
	Contracts map[string]map[string]CompiledContract `json:"contracts"`

	// Sources maps a source unit name to the source descriptor the compiler assigned.
	Sources map[string]CompiledSource `json:"sources,omitempty"`

	// Errors lists the diagnostics emitted by the compiler, including warnings.
	Errors []CompilerError `json:"errors,omitempty"`
}

// ParseCompilationResult parses a standard-JSON response. A response that is blank or JSON null yields
// ErrEmptyResponse, and a JSON response holding a value of the wrong type yields a *MalformedFieldError.
func ParseCompilationResult(output []byte) (*CompilationResult, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyResponse
	}

	var result CompilationResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		// Well-formed JSON of the wrong shape is a malformed response, anything else is not a response at all
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "response"
			}
			return nil, &MalformedFieldError{Field: field, Value: typeErr.Value, Expected: typeErr.Type.String()}
		}
		return nil, fmt.Errorf("could not parse compiler response: %w", err)
	}
	return &result, nil
}

// FatalErrors returns the diagnostics of error severity. A non-empty result means the compilation failed.
func (r *CompilationResult) FatalErrors() []CompilerError {
	var fatal []CompilerError
	for _, compilerErr := range r.Errors {
		if compilerErr.IsFatal() {
			fatal = append(fatal, compilerErr)
		}
	}
	return fatal
}

// BytecodeObject walks the response down to the bytecode output selected by target and returns it with its non-nil
// Object. A *MissingFieldError names the first absent field on the path.
func (r *CompilationResult) BytecodeObject(target Target) (*BytecodeOutput, error) {
	if r.Contracts == nil {
		return nil, &MissingFieldError{Field: "contracts"}
	}

	contracts, ok := r.Contracts[target.SourceFile]
	if !ok {
		return nil, &MissingFieldError{Field: fmt.Sprintf("contracts[%q]", target.SourceFile)}
	}

	contract, ok := contracts[target.ContractName]
	if !ok {
		return nil, &MissingFieldError{Field: target.contractPath()}
	}

	output := contract.Bytecode(target.ArtifactKind)
	if output == nil {
		return nil, &MissingFieldError{Field: target.artifactPath()}
	}
	if output.Object == nil {
		return nil, &MissingFieldError{Field: target.ObjectPath()}
	}
	return output, nil
}

// MissingFieldError is returned when a compiler response lacks a field on the path to a requested artifact.
type MissingFieldError struct {
	// Field is the path of the absent field.
	Field string
}

// Error returns the error message string, implementing the `error` interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("compiler response is missing %s", e.Field)
}

// MalformedFieldError is returned when a compiler response holds a value of the wrong type.
type MalformedFieldError struct {
	// Field is the dotted path of the malformed field, or "response" for the top-level value.
	Field string

	// Value is the JSON type that was found, e.g. "number".
	Value string

	// Expected is the Go type the field decodes into.
	Expected string
}

// Error returns the error message string, implementing the `error` interface.
func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("compiler response field %s holds a %s, expected %s", e.Field, e.Value, e.Expected)
}
