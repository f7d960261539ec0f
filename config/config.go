package config

import (
	"encoding/json"
	"os"

	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/determinism"
	"github.com/crytic/hypcheck/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// ProjectConfig describes the configuration of a determinism check against a compiler.
type ProjectConfig struct {
	// Check describes the configuration used by the determinism.Checker.
	Check CheckConfig `json:"check"`

	// Compilation describes the configuration used to reach the compiler's standard-JSON entry point.
	Compilation *compilation.CompilationConfig `json:"compilation"`

	// Logging describes the configuration used for logging to file and console
	Logging LoggingConfig `json:"logging"`
}

// CheckConfig describes the configuration options used by the determinism.Checker.
type CheckConfig struct {
	// FixturesDirectory is the directory the source files are read from.
	FixturesDirectory string `json:"fixturesDirectory"`

	// Files lists the source files to compile, relative to FixturesDirectory.
	Files []string `json:"files"`

	// Target designates the contract artifact whose bytecode is compared.
	Target types.Target `json:"target"`

	// Iterations is the number of times the request is compiled. It must be at least 2.
	Iterations int `json:"iterations"`

	// Language is the language tag of the compilation request.
	Language string `json:"language"`

	// Presets lists the settings presets to check, one run each. If empty, the reference settings are used.
	Presets []compilation.SettingsPreset `json:"presets"`

	// ZVMVersion pins the VM version in preset settings. Empty leaves the compiler default.
	ZVMVersion string `json:"zvmVersion"`

	// CheckSourceOrder additionally compiles each rotation of the sources and compares the bytecode.
	CheckSourceOrder bool `json:"checkSourceOrder"`

	// BaselineDirectory is the directory of the baseline store. If empty, no baseline is kept.
	BaselineDirectory string `json:"baselineDirectory"`

	// UpdateBaseline replaces recorded baselines that differ instead of failing.
	UpdateBaseline bool `json:"updateBaseline"`

	// ReportPath is the file a JSON report is written to. If empty, no report is written.
	ReportPath string `json:"reportPath"`

	// Timeout is the number of seconds a single compilation may take. 0 disables the timeout.
	Timeout int `json:"timeout"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`

	// NoColor indicates whether console output should be colorized
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields absent from the
// file keep the defaults of defaultPlatform.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string, defaultPlatform string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig, err := GetDefaultProjectConfig(defaultPlatform)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	return utils.WriteFile(path, b)
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	if p.Compilation == nil {
		return errors.Errorf("project configuration must specify a compilation config")
	}
	if !compilation.IsSupportedCompilationPlatform(p.Compilation.Platform) {
		return errors.Errorf("unsupported compilation platform '%s', expected one of %v", p.Compilation.Platform, compilation.GetSupportedCompilationPlatforms())
	}

	// Verify the check can observe nondeterminism
	if p.Check.Iterations < determinism.MinIterations {
		return errors.Errorf("iteration count must be at least %d", determinism.MinIterations)
	}
	if p.Check.Timeout < 0 {
		return errors.Errorf("timeout cannot be negative")
	}

	// Verify the target is part of the compiled sources
	if len(p.Check.Files) == 0 {
		return errors.Errorf("must specify one or more source files")
	}
	if p.Check.Target.SourceFile == "" || p.Check.Target.ContractName == "" {
		return errors.Errorf("must specify a target source file and contract name")
	}
	if !slices.Contains(p.Check.Files, p.Check.Target.SourceFile) {
		return errors.Errorf("target source file '%s' is not one of the source files %v", p.Check.Target.SourceFile, p.Check.Files)
	}
	if !p.Check.Target.ArtifactKind.IsSupported() {
		return errors.Errorf("unsupported artifact kind '%s', expected '%s' or '%s'", p.Check.Target.ArtifactKind, types.ArtifactBytecode, types.ArtifactDeployedBytecode)
	}

	if p.Check.Language == "" {
		return errors.Errorf("must specify a source language")
	}
	for _, preset := range p.Check.Presets {
		if _, err := compilation.SettingsFromPreset(preset, p.Check.ZVMVersion, p.Check.Target.ArtifactKind); err != nil {
			return errors.Errorf("%v, expected one of %v", err, compilation.SupportedPresets())
		}
	}
	return nil
}
