package types

import "fmt"

// CompilerError is a diagnostic from the "errors" list of a compiler response.
type CompilerError struct {
	Component        string          `json:"component,omitempty"`
	ErrorCode        string          `json:"errorCode,omitempty"`
	FormattedMessage string          `json:"formattedMessage,omitempty"`
	Message          string          `json:"message"`
	Severity         string          `json:"severity"`
	Type             string          `json:"type"`
	SourceLocation   *SourceLocation `json:"sourceLocation,omitempty"`
}

// SourceLocation points a diagnostic at a byte range of a source unit.
type SourceLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SeverityError is the severity of diagnostics which fail a compilation.
const SeverityError = "error"

// IsFatal reports whether the diagnostic failed the compilation.
func (e CompilerError) IsFatal() bool {
	return e.Severity == SeverityError
}

// String returns a single-line rendering of the diagnostic.
func (e CompilerError) String() string {
	if e.SourceLocation != nil {
		return fmt.Sprintf("%s: %s (%s:%d-%d)", e.Type, e.Message, e.SourceLocation.File, e.SourceLocation.Start, e.SourceLocation.End)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}
