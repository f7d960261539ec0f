package config

import (
	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/compilation/types"
)

// PresetRequest is a compilation request built for a settings preset.
type PresetRequest struct {
	// Preset names the settings preset. It is empty for the reference settings.
	Preset compilation.SettingsPreset

	// Request is the compilation request to check.
	Request types.CompilationRequest
}

// BuildRequests reads the configured source files once and builds one compilation request per configured preset, or
// a single request with the reference settings if no preset is configured.
func (c *CheckConfig) BuildRequests() ([]PresetRequest, error) {
	sources, err := compilation.ReadSources(c.FixturesDirectory, c.Files)
	if err != nil {
		return nil, err
	}

	if len(c.Presets) == 0 {
		settings := compilation.ReferenceSettings(c.Target.ArtifactKind)
		return []PresetRequest{{Request: types.NewCompilationRequest(c.Language, sources, settings)}}, nil
	}

	requests := make([]PresetRequest, 0, len(c.Presets))
	for _, preset := range c.Presets {
		settings, err := compilation.SettingsFromPreset(preset, c.ZVMVersion, c.Target.ArtifactKind)
		if err != nil {
			return nil, err
		}
		requests = append(requests, PresetRequest{
			Preset:  preset,
			Request: types.NewCompilationRequest(c.Language, sources, settings),
		})
	}
	return requests, nil
}
