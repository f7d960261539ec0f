package determinism

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/logging/colors"
	"github.com/crytic/hypcheck/utils"
	"github.com/crytic/medusa-geth/common/hexutil"
)

// DefaultIterations is the number of times the reference request is compiled when no count is configured.
const DefaultIterations = 10

// MinIterations is the smallest iteration count that can observe nondeterminism.
const MinIterations = 2

// EntryPoint describes a compiler's standard-JSON compilation entry point. It accepts a serialized request and returns
// the serialized response.
type EntryPoint interface {
	CompileStandardJSON(ctx context.Context, input []byte) ([]byte, error)
}

// CheckerConfig describes a determinism check.
type CheckerConfig struct {
	// Request is the compilation request submitted on every iteration.
	Request types.CompilationRequest

	// Target designates the compared bytecode.
	Target types.Target

	// Iterations is the number of times Request is compiled.
	Iterations int

	// CheckSourceOrder additionally compiles Request once per rotation of its sources, to verify that the order of
	// the "sources" object does not affect the bytecode.
	CheckSourceOrder bool

	// Timeout bounds a single compilation. Zero disables it.
	Timeout time.Duration
}

// Checker compiles a fixed request repeatedly and verifies that the target bytecode is present, non-empty and
// identical across all compilations.
type Checker struct {
	// config describes the check to run
	config CheckerConfig

	// entryPoint is the compiler under test
	entryPoint EntryPoint

	// logger describes the Checker's log object that can be used to log important events
	logger *logging.Logger
}

// artifact is the target bytecode extracted from a response.
type artifact struct {
	object   string
	unlinked bool
}

// reference holds the bytecode every later compilation is compared against. bytecode is nil when the object is not
// decodable hex.
type reference struct {
	object   string
	bytecode []byte
	digest   string
}

// NewChecker returns a Checker for the provided entry point, or an error if the config is invalid.
func NewChecker(entryPoint EntryPoint, config CheckerConfig) (*Checker, error) {
	if entryPoint == nil {
		return nil, fmt.Errorf("no compilation entry point was provided")
	}
	if config.Iterations < MinIterations {
		return nil, fmt.Errorf("iteration count must be at least %d, got %d", MinIterations, config.Iterations)
	}
	if len(config.Request.Sources) == 0 {
		return nil, fmt.Errorf("compilation request has no sources")
	}
	if config.Target.SourceFile == "" || config.Target.ContractName == "" {
		return nil, fmt.Errorf("target source file and contract name must be provided")
	}
	if !config.Target.ArtifactKind.IsSupported() {
		return nil, fmt.Errorf("unsupported artifact kind '%s'", config.Target.ArtifactKind)
	}
	if _, ok := config.Request.Sources[config.Target.SourceFile]; !ok {
		return nil, fmt.Errorf("target source file '%s' is not part of the compilation request", config.Target.SourceFile)
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative")
	}

	return &Checker{
		config:     config,
		entryPoint: entryPoint,
		logger:     logging.GlobalLogger.NewSubLogger("module", logging.DETERMINISM_SERVICE),
	}, nil
}

// Run performs the check. The returned report describes every compilation that produced bytecode; it is returned
// even if the check fails, in which case the error names the first failing iteration. No compilation is retried.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	report := newReport(c.config.Target)
	err := c.run(ctx, report)
	report.finish(err)
	return report, err
}

// run compiles the reference input Iterations times, then each source order variant, recording results in report.
func (c *Checker) run(ctx context.Context, report *Report) error {
	// The request is serialized once so that every iteration submits byte-identical input
	input, err := c.config.Request.Marshal()
	if err != nil {
		return fmt.Errorf("could not serialize compilation request: %w", err)
	}

	c.logger.Info("Compiling ", colors.Bold, c.config.Target.String(), colors.Reset, " ", c.config.Iterations,
		" times (", len(c.config.Request.Sources), " source(s), ", len(input), " byte request)")

	var ref *reference
	for i := 0; i < c.config.Iterations; i++ {
		result, observed, err := c.compile(ctx, i, input)
		if err != nil {
			return err
		}

		if ref == nil {
			ref = newReference(observed)
		} else if observed.object != ref.object {
			return newMismatchError(i, "", ref, observed)
		}

		result.Digest = ref.digest
		report.addIteration(result)
		c.logger.Debug("Iteration ", i, ": ", result.Digest, " (", result.Length, " bytes, ", result.Duration, ")")
	}

	if c.config.CheckSourceOrder {
		return c.checkSourceOrders(ctx, report, ref)
	}
	return nil
}

// checkSourceOrders compiles the request once per rotation of its sorted source names, other than the canonical
// order, and compares each bytecode against ref.
func (c *Checker) checkSourceOrders(ctx context.Context, report *Report, ref *reference) error {
	rotations := utils.SliceRotations(c.config.Request.SourceNames())
	if len(rotations) < 2 {
		c.logger.Warn("Skipping the source order check: the request has a single source")
		return nil
	}

	c.logger.Info("Compiling ", len(rotations)-1, " source order variant(s)")
	for k, order := range rotations[1:] {
		iteration := c.config.Iterations + k
		variant := "source order " + strings.Join(order, ", ")

		input, err := c.config.Request.MarshalWithSourceOrder(order)
		if err != nil {
			return fmt.Errorf("could not serialize compilation request: %w", err)
		}

		result, observed, err := c.compile(ctx, iteration, input)
		if err != nil {
			return err
		}
		if observed.object != ref.object {
			return newMismatchError(iteration, variant, ref, observed)
		}

		result.Digest = ref.digest
		result.Variant = variant
		report.addIteration(result)
		c.logger.Debug("Iteration ", iteration, " (", variant, "): ", result.Digest)
	}
	return nil
}

// compile submits input to the entry point and extracts the target bytecode from the response.
func (c *Checker) compile(ctx context.Context, iteration int, input []byte) (IterationResult, artifact, error) {
	compileCtx := ctx
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		compileCtx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	output, err := c.entryPoint.CompileStandardJSON(compileCtx, input)
	duration := time.Since(start)
	if err != nil {
		return IterationResult{}, artifact{}, &EntryPointError{Iteration: iteration, Err: err}
	}

	observed, err := c.extractBytecode(iteration, output)
	if err != nil {
		return IterationResult{}, artifact{}, err
	}

	return IterationResult{
		Index:    iteration,
		Length:   bytecodeLength(observed.object),
		Duration: duration,
	}, observed, nil
}

// extractBytecode parses a response and returns the non-empty target bytecode it carries.
func (c *Checker) extractBytecode(iteration int, output []byte) (artifact, error) {
	result, err := types.ParseCompilationResult(output)
	var malformedFieldErr *types.MalformedFieldError
	if errors.Is(err, types.ErrEmptyResponse) {
		return artifact{}, &MissingFieldError{Iteration: iteration, Field: "response"}
	} else if errors.As(err, &malformedFieldErr) {
		return artifact{}, &MalformedFieldError{Iteration: iteration, Field: malformedFieldErr.Field, Value: malformedFieldErr.Value}
	} else if err != nil {
		return artifact{}, &EntryPointError{Iteration: iteration, Err: err}
	}

	for _, compilerErr := range result.Errors {
		if !compilerErr.IsFatal() {
			c.logger.Debug("Compiler ", strings.ToLower(compilerErr.Severity), ": ", compilerErr.String())
		}
	}
	if fatal := result.FatalErrors(); len(fatal) > 0 {
		return artifact{}, &CompilerDiagnosticsError{Iteration: iteration, Errors: fatal}
	}

	bytecode, err := result.BytecodeObject(c.config.Target)
	if err != nil {
		var missingFieldErr *types.MissingFieldError
		if errors.As(err, &missingFieldErr) {
			return artifact{}, &MissingFieldError{Iteration: iteration, Field: missingFieldErr.Field}
		}
		return artifact{}, err
	}

	if strings.TrimPrefix(*bytecode.Object, "0x") == "" {
		return artifact{}, &EmptyBytecodeError{Iteration: iteration, Field: c.config.Target.ObjectPath()}
	}
	return artifact{object: *bytecode.Object, unlinked: bytecode.IsUnlinked()}, nil
}

// newReference returns the reference for the bytecode of the first compilation.
func newReference(observed artifact) *reference {
	ref := &reference{
		object: observed.object,
		digest: types.BytecodeDigest(observed.object),
	}
	if !observed.unlinked {
		// Objects that are not hex despite carrying no link references are compared as text
		ref.bytecode, _ = types.DecodeBytecode(observed.object)
	}
	return ref
}

// newMismatchError describes how the observed bytecode differs from the reference.
func newMismatchError(iteration int, variant string, ref *reference, observed artifact) *BytecodeMismatchError {
	mismatch := &BytecodeMismatchError{
		Iteration:      iteration,
		Variant:        variant,
		Expected:       ref.digest,
		Actual:         types.BytecodeDigest(observed.object),
		ExpectedLength: bytecodeLength(ref.object),
		ActualLength:   bytecodeLength(observed.object),
	}

	var bytecode []byte
	if ref.bytecode != nil && !observed.unlinked {
		bytecode, _ = types.DecodeBytecode(observed.object)
	}
	if bytecode == nil {
		// Compare hex digits, two per byte
		mismatch.FirstDifference = firstDifference([]byte(strings.TrimPrefix(ref.object, "0x")), []byte(strings.TrimPrefix(observed.object, "0x"))) / 2
		return mismatch
	}
	mismatch.FirstDifference = firstDifference(ref.bytecode, bytecode)

	refMetadata := types.ExtractContractMetadata(ref.bytecode)
	metadata := types.ExtractContractMetadata(bytecode)
	if refMetadata == nil || metadata == nil {
		return mismatch
	}
	mismatch.MetadataOnly = bytes.Equal(types.RemoveContractMetadata(ref.bytecode), types.RemoveContractMetadata(bytecode))
	if mismatch.MetadataOnly {
		mismatch.ExpectedMetadataHash = encodeMetadataHash(refMetadata.ExtractBytecodeHash())
		mismatch.ActualMetadataHash = encodeMetadataHash(metadata.ExtractBytecodeHash())
		mismatch.MetadataCompilerVersion = refMetadata.ExtractCompilerVersion()
	}
	return mismatch
}

// encodeMetadataHash hex-encodes a metadata bytecode hash, or returns the empty string if there is none.
func encodeMetadataHash(hash []byte) string {
	if len(hash) == 0 {
		return ""
	}
	return hexutil.Encode(hash)
}

// firstDifference returns the index of the first differing element of a and b, or the shorter length if one is a
// prefix of the other.
func firstDifference(a []byte, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// bytecodeLength returns the byte length of a hex bytecode object.
func bytecodeLength(object string) int {
	return len(strings.TrimPrefix(object, "0x")) / 2
}
