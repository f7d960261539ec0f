package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/hypcheck/cmd/exitcodes"
	"github.com/crytic/hypcheck/determinism"
	"github.com/crytic/hypcheck/utils"
	"github.com/crytic/hypcheck/utils/testutils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHypcHeader answers version queries and drains the request written to stdin, leaving the response to the caller.
const fakeHypcHeader = `if [ "$1" = "--version" ]; then
  echo "hypc, the hyperion compiler commandline interface"
  echo "Version: 0.1.7+commit.3e9c9f6b.Linux.g++"
  exit 0
fi
cat > /dev/null
`

// writeFakeHypc writes an executable shell script standing in for hypc into its own directory.
func writeFakeHypc(t *testing.T, body string) string {
	if utils.IsWindowsEnvironment() {
		t.Skip("fake compiler scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "hypc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+fakeHypcHeader+body), 0755))
	return path
}

// stableHypc returns a fake hypc that always emits object as the DAO creation bytecode.
func stableHypc(t *testing.T, object string) string {
	return writeFakeHypc(t, `echo '{"contracts":{"DAO.hyp":{"DAO":{"zvm":{"bytecode":{"object":"`+object+`"}}}}}}'
`)
}

// runCheck executes a fresh check command with args from an empty working directory and returns the exit code the
// application would exit with.
func runCheck(t *testing.T, args ...string) int {
	fixtures, err := filepath.Abs(filepath.Join("..", "determinism", "testdata", "DAO"))
	require.NoError(t, err)

	cmd := &cobra.Command{Use: "check", RunE: cmdRunCheck, SilenceUsage: true, SilenceErrors: true}
	require.NoError(t, addCheckFlags(cmd))
	cmd.SetArgs(append([]string{"--fixtures", fixtures, "--iterations", "3", "--no-color"}, args...))

	var runErr error
	testutils.ExecuteInDirectory(t, t.TempDir(), func() {
		runErr = cmd.Execute()
	})
	_, exitCode := exitcodes.GetInnerErrorAndExitCode(runErr)
	return exitCode
}

// TestCheckExitCodes verifies the exit code of the check command for stable, diverging and crashing compilers.
func TestCheckExitCodes(t *testing.T) {
	stable := stableHypc(t, "0x6080604052")
	assert.Equal(t, exitcodes.ExitCodeSuccess, runCheck(t, "--binary", stable))

	// Every invocation bumps a counter kept next to the script, so consecutive outputs differ
	diverging := writeFakeHypc(t, `counter="$(dirname "$0")/count"
n=$(cat "$counter" 2>/dev/null || echo 0)
n=$((n + 1))
echo "$n" > "$counter"
echo '{"contracts":{"DAO.hyp":{"DAO":{"zvm":{"bytecode":{"object":"0x6080604'"$n"'"}}}}}}'
`)
	assert.Equal(t, exitcodes.ExitCodeCheckFailed, runCheck(t, "--binary", diverging))

	crashing := writeFakeHypc(t, `echo "Segmentation fault" >&2
exit 139
`)
	assert.Equal(t, exitcodes.ExitCodeHandledError, runCheck(t, "--binary", crashing))

	// A response without the target contract fails the check
	missing := writeFakeHypc(t, `echo '{"contracts":{"Token.hyp":{}}}'
`)
	assert.Equal(t, exitcodes.ExitCodeCheckFailed, runCheck(t, "--binary", missing))

	// A binary that cannot report its version never reaches the check
	assert.Equal(t, exitcodes.ExitCodeHandledError, runCheck(t, "--binary", filepath.Join(t.TempDir(), "missing-hypc")))

	// Invalid configuration
	assert.Equal(t, exitcodes.ExitCodeHandledError, runCheck(t, "--binary", stable, "--iterations", "1"))
}

// TestCheckPresetReports verifies that every preset is checked and writes its own report.
func TestCheckPresetReports(t *testing.T) {
	binary := stableHypc(t, "0x6080604052")
	reportDirectory := t.TempDir()
	reportPath := filepath.Join(reportDirectory, "report.json")

	exitCode := runCheck(t, "--binary", binary,
		"--preset", "legacy-no-optimize",
		"--preset", "ir-optimize-zvm+yul",
		"--report", reportPath,
	)
	require.Equal(t, exitcodes.ExitCodeSuccess, exitCode)

	assert.NoFileExists(t, reportPath)
	for _, preset := range []string{"legacy-no-optimize", "ir-optimize-zvm+yul"} {
		b, err := os.ReadFile(filepath.Join(reportDirectory, "report-"+preset+".json"))
		require.NoError(t, err, preset)
		var report determinism.Report
		require.NoError(t, json.Unmarshal(b, &report), preset)
		assert.True(t, report.Passed, preset)
		assert.Equal(t, preset, report.Preset)
		assert.Equal(t, "hypc", report.Platform)
		assert.Equal(t, "0.1.7+commit.3e9c9f6b", report.CompilerVersion)
		assert.Len(t, report.Iterations, 3)
	}
}

// TestCheckBaseline verifies that bytecode differing from a recorded baseline fails the check unless the baseline is
// updated.
func TestCheckBaseline(t *testing.T) {
	baselineDirectory := t.TempDir()
	original := stableHypc(t, "0x6080604052")
	changed := stableHypc(t, "0x6080604053")

	assert.Equal(t, exitcodes.ExitCodeSuccess, runCheck(t, "--binary", original, "--baseline-dir", baselineDirectory))
	assert.Equal(t, exitcodes.ExitCodeSuccess, runCheck(t, "--binary", original, "--baseline-dir", baselineDirectory))
	assert.Equal(t, exitcodes.ExitCodeCheckFailed, runCheck(t, "--binary", changed, "--baseline-dir", baselineDirectory))

	assert.Equal(t, exitcodes.ExitCodeSuccess,
		runCheck(t, "--binary", changed, "--baseline-dir", baselineDirectory, "--update-baseline"))
	assert.Equal(t, exitcodes.ExitCodeSuccess, runCheck(t, "--binary", changed, "--baseline-dir", baselineDirectory))
	assert.Equal(t, exitcodes.ExitCodeCheckFailed, runCheck(t, "--binary", original, "--baseline-dir", baselineDirectory))
}
