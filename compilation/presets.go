package compilation

import (
	"fmt"

	"github.com/crytic/hypcheck/compilation/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SettingsPreset names a combination of optimizer and code generation settings.
type SettingsPreset string

const (
	// PresetLegacyNoOptimize compiles through the legacy pipeline with the optimizer disabled.
	PresetLegacyNoOptimize SettingsPreset = "legacy-no-optimize"
	// PresetIRNoOptimize compiles through the IR pipeline with the optimizer disabled.
	PresetIRNoOptimize SettingsPreset = "ir-no-optimize"
	// PresetLegacyOptimizeZVMOnly compiles through the legacy pipeline with the bytecode optimizer only.
	PresetLegacyOptimizeZVMOnly SettingsPreset = "legacy-optimize-zvm-only"
	// PresetIROptimizeZVMOnly compiles through the IR pipeline with the bytecode optimizer only.
	PresetIROptimizeZVMOnly SettingsPreset = "ir-optimize-zvm-only"
	// PresetLegacyOptimizeZVMYul compiles through the legacy pipeline with both the bytecode and Yul optimizers.
	PresetLegacyOptimizeZVMYul SettingsPreset = "legacy-optimize-zvm+yul"
	// PresetIROptimizeZVMYul compiles through the IR pipeline with both the bytecode and Yul optimizers.
	PresetIROptimizeZVMYul SettingsPreset = "ir-optimize-zvm+yul"
)

// presetSettings describes the optimizer and pipeline flags of each preset.
var presetSettings = map[SettingsPreset]struct {
	optimize bool
	yul      bool
	viaIR    bool
}{
	PresetLegacyNoOptimize:      {optimize: false, yul: false, viaIR: false},
	PresetIRNoOptimize:          {optimize: false, yul: false, viaIR: true},
	PresetLegacyOptimizeZVMOnly: {optimize: true, yul: false, viaIR: false},
	PresetIROptimizeZVMOnly:     {optimize: true, yul: false, viaIR: true},
	PresetLegacyOptimizeZVMYul:  {optimize: true, yul: true, viaIR: false},
	PresetIROptimizeZVMYul:      {optimize: true, yul: true, viaIR: true},
}

// SupportedPresets returns the names of all presets, sorted.
func SupportedPresets() []string {
	names := make([]string, 0, len(presetSettings))
	for _, preset := range maps.Keys(presetSettings) {
		names = append(names, string(preset))
	}
	slices.Sort(names)
	return names
}

// ReferenceSettings returns the settings of the reference determinism check: optimizer enabled, requesting only the
// provided artifact kind.
func ReferenceSettings(kind types.ArtifactKind) types.Settings {
	return types.Settings{
		Optimizer:       types.OptimizerSettings{Enabled: true},
		OutputSelection: types.NewOutputSelection(kind),
	}
}

// SettingsFromPreset returns the settings for a preset, targeting zvmVersion (empty for the compiler default) and
// requesting only the provided artifact kind.
func SettingsFromPreset(preset SettingsPreset, zvmVersion string, kind types.ArtifactKind) (types.Settings, error) {
	flags, ok := presetSettings[preset]
	if !ok {
		return types.Settings{}, fmt.Errorf("unknown settings preset '%s'", preset)
	}

	settings := types.Settings{
		Optimizer: types.OptimizerSettings{
			Enabled: flags.optimize,
			Details: &types.OptimizerDetails{Yul: flags.yul},
		},
		ZVMVersion:      zvmVersion,
		ViaIR:           flags.viaIR,
		OutputSelection: types.NewOutputSelection(kind),
	}
	return settings, nil
}
