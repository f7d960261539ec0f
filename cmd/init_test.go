package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/crytic/hypcheck/config"
	"github.com/crytic/hypcheck/utils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInitCommand returns an init command writing to a buffer, with its flags parsed from args.
func newInitCommand(t *testing.T, input string, args ...string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "init", RunE: cmdRunInit}
	require.NoError(t, addInitFlags(cmd))
	require.NoError(t, cmd.ParseFlags(args))

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetIn(bytes.NewBufferString(input))
	return cmd, &output
}

// TestInitWritesConfig verifies that init writes a valid configuration carrying the flag values.
func TestInitWritesConfig(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "nested", "hypcheck.json")
	cmd, _ := newInitCommand(t, "",
		"--out", outputPath,
		"--binary", "/opt/hypc/bin/hypc",
		"--fixtures", "contracts",
		"--files", "Vault.hyp,Math.hyp",
		"--source", "Vault.hyp",
		"--contract", "Vault",
	)
	require.NoError(t, cmdRunInit(cmd, nil))

	projectConfig, err := config.ReadProjectConfigFromFile(outputPath, DefaultCompilationPlatform)
	require.NoError(t, err)
	assert.Equal(t, "contracts", projectConfig.Check.FixturesDirectory)
	assert.Equal(t, []string{"Vault.hyp", "Math.hyp"}, projectConfig.Check.Files)
	assert.Equal(t, "Vault.hyp", projectConfig.Check.Target.SourceFile)
	assert.Equal(t, "Vault", projectConfig.Check.Target.ContractName)

	platformConfig, err := projectConfig.Compilation.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, "/opt/hypc/bin/hypc", platformConfig.GetCompilerPath())
}

// TestInitRejectsInvalidTarget verifies that a target outside of the source files is not written.
func TestInitRejectsInvalidTarget(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "hypcheck.json")
	cmd, _ := newInitCommand(t, "", "--out", outputPath, "--source", "Missing.hyp")
	assert.Error(t, cmdRunInit(cmd, nil))
	assert.NoFileExists(t, outputPath)
}

// TestInitOverwritePrompt verifies that an existing file is only replaced after confirmation or with --force.
func TestInitOverwritePrompt(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "hypcheck.json")
	require.NoError(t, utils.WriteFile(outputPath, []byte("{}")))

	// Declined
	cmd, output := newInitCommand(t, "n\n", "--out", outputPath)
	require.NoError(t, cmdRunInit(cmd, nil))
	assert.Contains(t, output.String(), "Operation canceled.")
	_, err := config.ReadProjectConfigFromFile(outputPath, DefaultCompilationPlatform)
	require.NoError(t, err)

	// Accepted
	cmd, _ = newInitCommand(t, "Y\n", "--out", outputPath, "--contract", "Token", "--source", "Token.hyp")
	require.NoError(t, cmdRunInit(cmd, nil))
	projectConfig, err := config.ReadProjectConfigFromFile(outputPath, DefaultCompilationPlatform)
	require.NoError(t, err)
	assert.Equal(t, "Token", projectConfig.Check.Target.ContractName)

	// Forced, without reading input
	cmd, output = newInitCommand(t, "", "--out", outputPath, "--force")
	require.NoError(t, cmdRunInit(cmd, nil))
	assert.NotContains(t, output.String(), "Overwrite?")
	projectConfig, err = config.ReadProjectConfigFromFile(outputPath, DefaultCompilationPlatform)
	require.NoError(t, err)
	assert.Equal(t, "DAO", projectConfig.Check.Target.ContractName)
}
