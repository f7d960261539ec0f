package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// LanguageHyperion is the language tag the Hyperion compiler expects in a standard-JSON request.
const LanguageHyperion = "Hyperion"

// CompilationRequest is the standard-JSON input submitted to a compiler. A request is built once and never mutated;
// derive variants with Clone.
type CompilationRequest struct {
	// Language is the source language tag, e.g. "Hyperion".
	Language string `json:"language"`

	// Sources maps a source unit name to its content.
	Sources map[string]SourceInput `json:"sources"`

	// Settings holds optimizer flags and the output selection.
	Settings Settings `json:"settings"`
}

// SourceInput is a single entry of CompilationRequest.Sources.
type SourceInput struct {
	// Content is the literal source text.
	Content string `json:"content"`
}

// Settings describes the compiler settings of a CompilationRequest.
type Settings struct {
	// Optimizer describes whether and how the optimizer runs.
	Optimizer OptimizerSettings `json:"optimizer"`

	// ZVMVersion pins the target VM version. Empty leaves the compiler default.
	ZVMVersion string `json:"zvmVersion,omitempty"`

	// ViaIR routes code generation through the IR pipeline.
	ViaIR bool `json:"viaIR,omitempty"`

	// OutputSelection selects the artifacts the compiler returns, keyed by file then contract.
	OutputSelection OutputSelection `json:"outputSelection"`
}

// OptimizerSettings describes the "optimizer" settings object.
type OptimizerSettings struct {
	// Enabled turns the optimizer on.
	Enabled bool `json:"enabled"`

	// Details optionally toggles optimizer components.
	Details *OptimizerDetails `json:"details,omitempty"`
}

// OptimizerDetails describes the "optimizer.details" settings object.
type OptimizerDetails struct {
	// Yul enables the Yul optimizer.
	Yul bool `json:"yul"`
}

// OutputSelection maps a file name pattern to a contract name pattern to the list of requested artifact kinds.
type OutputSelection map[string]map[string][]string

// NewOutputSelection returns an OutputSelection requesting the provided artifact kinds for every file and contract.
func NewOutputSelection(kinds ...ArtifactKind) OutputSelection {
	selected := make([]string, len(kinds))
	for i, kind := range kinds {
		selected[i] = string(kind)
	}
	return OutputSelection{"*": {"*": selected}}
}

// NewCompilationRequest returns a request over the provided sources and settings.
func NewCompilationRequest(language string, sources map[string]SourceInput, settings Settings) CompilationRequest {
	return CompilationRequest{
		Language: language,
		Sources:  sources,
		Settings: settings,
	}.Clone()
}

// SourceNames returns the source unit names of the request in sorted order.
func (r CompilationRequest) SourceNames() []string {
	names := maps.Keys(r.Sources)
	slices.Sort(names)
	return names
}

// Clone returns a deep copy of the request.
func (r CompilationRequest) Clone() CompilationRequest {
	clone := CompilationRequest{
		Language: r.Language,
		Sources:  maps.Clone(r.Sources),
		Settings: r.Settings,
	}
	if r.Settings.Optimizer.Details != nil {
		details := *r.Settings.Optimizer.Details
		clone.Settings.Optimizer.Details = &details
	}
	if r.Settings.OutputSelection != nil {
		clone.Settings.OutputSelection = make(OutputSelection, len(r.Settings.OutputSelection))
		for file, contracts := range r.Settings.OutputSelection {
			clonedContracts := make(map[string][]string, len(contracts))
			for contract, kinds := range contracts {
				clonedContracts[contract] = slices.Clone(kinds)
			}
			clone.Settings.OutputSelection[file] = clonedContracts
		}
	}
	return clone
}

// Marshal serializes the request canonically. encoding/json sorts map keys, so repeated calls yield identical bytes.
func (r CompilationRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// MarshalWithSourceOrder serializes the request with the keys of the "sources" object emitted in the provided order.
// The order must name every source exactly once.
func (r CompilationRequest) MarshalWithSourceOrder(order []string) ([]byte, error) {
	if len(order) != len(r.Sources) {
		return nil, fmt.Errorf("source order names %d sources but the request has %d", len(order), len(r.Sources))
	}

	var buf bytes.Buffer
	buf.WriteString(`{"language":`)
	if err := writeJSON(&buf, r.Language); err != nil {
		return nil, err
	}

	buf.WriteString(`,"sources":{`)
	seen := make(map[string]bool, len(order))
	for i, name := range order {
		source, ok := r.Sources[name]
		if !ok || seen[name] {
			return nil, fmt.Errorf("source order entry '%s' is unknown or duplicated", name)
		}
		seen[name] = true

		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, source); err != nil {
			return nil, err
		}
	}

	buf.WriteString(`},"settings":`)
	if err := writeJSON(&buf, r.Settings); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON appends the JSON encoding of v to buf.
func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
