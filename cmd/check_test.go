package cmd

import (
	"testing"

	"github.com/crytic/hypcheck/compilation"
	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseCheckFlags returns a command carrying the check flags, parsed from args.
func parseCheckFlags(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "check"}
	require.NoError(t, addCheckFlags(cmd))
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

// TestUpdateProjectConfigWithCheckFlags verifies that only the flags that were used override the config.
func TestUpdateProjectConfigWithCheckFlags(t *testing.T) {
	projectConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	require.NoError(t, err)
	projectConfig.Check.ReportPath = "reports/determinism.json"

	cmd := parseCheckFlags(t,
		"--platform", "hypcjs",
		"--binary", "./node_modules/hypc",
		"--files", "Token.hyp,TokenCreation.hyp",
		"--source", "Token.hyp",
		"--contract", "Token",
		"--artifact", "zvm.deployedBytecode",
		"--iterations", "4",
		"--preset", "ir-no-optimize",
		"--preset", "legacy-optimize-zvm+yul",
		"--source-order",
		"--timeout", "30",
		"--baseline-dir", ".hypcheck",
	)
	require.NoError(t, updateProjectConfigWithCheckFlags(cmd, projectConfig))

	assert.Equal(t, "hypcjs", projectConfig.Compilation.Platform)
	platformConfig, err := projectConfig.Compilation.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, "./node_modules/hypc", platformConfig.GetCompilerPath())

	assert.Equal(t, []string{"Token.hyp", "TokenCreation.hyp"}, projectConfig.Check.Files)
	assert.Equal(t, types.Target{SourceFile: "Token.hyp", ContractName: "Token", ArtifactKind: types.ArtifactDeployedBytecode}, projectConfig.Check.Target)
	assert.Equal(t, 4, projectConfig.Check.Iterations)
	assert.Equal(t, []compilation.SettingsPreset{compilation.PresetIRNoOptimize, compilation.PresetLegacyOptimizeZVMYul}, projectConfig.Check.Presets)
	assert.True(t, projectConfig.Check.CheckSourceOrder)
	assert.Equal(t, 30, projectConfig.Check.Timeout)
	assert.Equal(t, ".hypcheck", projectConfig.Check.BaselineDirectory)

	// Unused flags keep the config values
	assert.Equal(t, compilation.DefaultFixturesDirectory, projectConfig.Check.FixturesDirectory)
	assert.Equal(t, "reports/determinism.json", projectConfig.Check.ReportPath)
	assert.False(t, projectConfig.Check.UpdateBaseline)
	assert.NoError(t, projectConfig.Validate())
}

// TestUpdateProjectConfigInvalidIterations verifies that an iteration count below two is caught by validation.
func TestUpdateProjectConfigInvalidIterations(t *testing.T) {
	projectConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	require.NoError(t, err)

	cmd := parseCheckFlags(t, "--iterations", "1")
	require.NoError(t, updateProjectConfigWithCheckFlags(cmd, projectConfig))
	assert.Error(t, projectConfig.Validate())
}

// TestUpdateProjectConfigUnsupportedPlatform verifies that an unknown platform is rejected.
func TestUpdateProjectConfigUnsupportedPlatform(t *testing.T) {
	projectConfig, err := config.GetDefaultProjectConfig(DefaultCompilationPlatform)
	require.NoError(t, err)

	cmd := parseCheckFlags(t, "--platform", "hardhat")
	assert.Error(t, updateProjectConfigWithCheckFlags(cmd, projectConfig))
}

// TestPresetReportPath verifies that report paths are only suffixed when several presets are checked.
func TestPresetReportPath(t *testing.T) {
	assert.Equal(t, "report.json", presetReportPath("report.json", "", 1))
	assert.Equal(t, "report.json", presetReportPath("report.json", "ir-no-optimize", 1))
	assert.Equal(t, "out/report-ir-no-optimize.json", presetReportPath("out/report.json", "ir-no-optimize", 2))
	assert.Equal(t, "report-legacy-no-optimize", presetReportPath("report", "legacy-no-optimize", 3))
}
