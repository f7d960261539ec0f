package config

import (
	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/determinism"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// GetDefaultProjectConfig obtains a default configuration for a project. It populates a default compilation config
// based on the provided platform, or a nil one if an empty string is provided.
func GetDefaultProjectConfig(platform string) (*ProjectConfig, error) {
	var (
		compilationConfig *compilation.CompilationConfig
		err               error
	)

	// Try to obtain a default compilation config for this platform.
	if platform != "" {
		compilationConfig, err = compilation.NewCompilationConfig(platform)
		if err != nil {
			return nil, err
		}
	}

	projectConfig := &ProjectConfig{
		Check: CheckConfig{
			FixturesDirectory: compilation.DefaultFixturesDirectory,
			Files:             slices.Clone(compilation.DefaultFixtureFiles),
			Target: types.Target{
				SourceFile:   "DAO.hyp",
				ContractName: "DAO",
				ArtifactKind: types.ArtifactBytecode,
			},
			Iterations:        determinism.DefaultIterations,
			Language:          types.LanguageHyperion,
			Presets:           []compilation.SettingsPreset{},
			ZVMVersion:        "",
			CheckSourceOrder:  false,
			BaselineDirectory: "",
			UpdateBaseline:    false,
			ReportPath:        "",
			Timeout:           0,
		},
		Compilation: compilationConfig,
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
			NoColor:      false,
		},
	}

	return projectConfig, nil
}
