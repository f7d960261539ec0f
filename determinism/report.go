package determinism

import (
	"encoding/json"
	"time"

	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/logging/colors"
	"github.com/crytic/hypcheck/utils"
	"github.com/crytic/hypcheck/version"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// IterationResult describes a single compilation performed by a Checker.
type IterationResult struct {
	// Index is the 0-based iteration index.
	Index int `json:"index"`

	// Variant describes how the input was derived from the reference input, if it was.
	Variant string `json:"variant,omitempty"`

	// Digest is the digest of the bytecode the iteration produced.
	Digest string `json:"digest"`

	// Length is the byte length of the bytecode.
	Length int `json:"length"`

	// Duration is the time the entry point took to respond.
	Duration time.Duration `json:"duration"`
}

// Report describes the outcome of a Checker run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID uuid.UUID `json:"runId"`

	// ToolVersion is the version of hypcheck that produced the report.
	ToolVersion string `json:"toolVersion"`

	// Platform is the compilation platform the run used.
	Platform string `json:"platform,omitempty"`

	// CompilerVersion is the version reported by the compiler.
	CompilerVersion string `json:"compilerVersion,omitempty"`

	// Preset names the settings preset of the request, if one was used.
	Preset string `json:"preset,omitempty"`

	// Target is the compared artifact.
	Target types.Target `json:"target"`

	// Iterations lists every compilation that produced bytecode.
	Iterations []IterationResult `json:"iterations"`

	// Passed is set if every compilation produced the reference bytecode.
	Passed bool `json:"passed"`

	// Failure is the message of the error that failed the run.
	Failure string `json:"failure,omitempty"`

	// MeanDuration is the mean compilation time in milliseconds.
	MeanDuration decimal.Decimal `json:"meanDurationMs"`
}

// newReport returns an empty report for target with a fresh run ID.
func newReport(target types.Target) *Report {
	return &Report{
		RunID:       uuid.New(),
		ToolVersion: version.GetInfo().Short(),
		Target:      target,
		Iterations:  make([]IterationResult, 0),
	}
}

// addIteration records a compilation that produced bytecode.
func (r *Report) addIteration(result IterationResult) {
	r.Iterations = append(r.Iterations, result)
	r.MeanDuration = meanDurationMilliseconds(r.Iterations)
}

// finish marks the report as passed, or failed with err.
func (r *Report) finish(err error) {
	r.Passed = err == nil
	if err != nil {
		r.Failure = err.Error()
	}
}

// Digest returns the digest of the reference bytecode, or an empty string if no iteration produced bytecode.
func (r *Report) Digest() string {
	if len(r.Iterations) == 0 {
		return ""
	}
	return r.Iterations[0].Digest
}

// meanDurationMilliseconds returns the mean duration of results in milliseconds, rounded to 3 decimal places.
func meanDurationMilliseconds(results []IterationResult) decimal.Decimal {
	if len(results) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, result := range results {
		total = total.Add(decimal.NewFromInt(result.Duration.Nanoseconds()))
	}
	return total.Div(decimal.NewFromInt(int64(len(results)))).Shift(-6).Round(3)
}

// WriteToFile writes the report as indented JSON to path.
func (r *Report) WriteToFile(path string) error {
	b, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	return utils.WriteFile(path, b)
}

// LogSummary logs a one-line outcome of the run.
func (r *Report) LogSummary(logger *logging.Logger) {
	buffer := logging.NewLogBuffer()
	if r.Passed {
		buffer.Append(colors.GreenBold, colors.CHECK_MARK, " ", colors.Reset)
	} else {
		buffer.Append(colors.RedBold, colors.CROSS_MARK, " ", colors.Reset)
	}
	buffer.Append(colors.Bold, r.Target.String(), colors.Reset)
	if r.Preset != "" {
		buffer.Append(" [", r.Preset, "]")
	}
	buffer.Append(": ", len(r.Iterations), " compilation(s)")
	if digest := r.Digest(); digest != "" {
		buffer.Append(", digest ", colors.Cyan, digest, colors.Reset, " (", r.Iterations[0].Length, " bytes)")
	}
	buffer.Append(", mean ", r.MeanDuration.StringFixed(3), "ms")

	info := logging.StructuredLogInfo{"runId": r.RunID.String(), "passed": r.Passed}
	if r.Passed {
		logger.Info(buffer, info)
	} else {
		logger.Error(buffer, info)
	}
}
