package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/hypcheck/utils"
	"github.com/stretchr/testify/require"
)

// CopyToTestDirectory copies the file or directory at filePath (relative to the working directory) to an ephemeral
// directory used for unit tests, and returns the absolute path of the copy.
func CopyToTestDirectory(t *testing.T, filePath string) string {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	sourcePath := filepath.Join(cwd, filePath)

	sourcePathInfo, err := os.Stat(sourcePath)
	require.NoError(t, err)

	targetPath := filepath.Join(t.TempDir(), "hypcheckTest", sourcePathInfo.Name())
	if sourcePathInfo.IsDir() {
		err = utils.CopyDirectory(sourcePath, targetPath)
	} else {
		err = utils.CopyFile(sourcePath, targetPath)
	}
	require.NoError(t, err)

	targetPath, err = filepath.Abs(targetPath)
	require.NoError(t, err)
	return targetPath
}

// ExecuteInDirectory changes the working directory to testPath (or its parent, for a file), runs method, then
// restores the working directory. Relative paths used by method resolve inside the test directory.
func ExecuteInDirectory(t *testing.T, testPath string, method func()) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	testPathInfo, err := os.Stat(testPath)
	require.NoError(t, err)

	testDirectory := testPath
	if !testPathInfo.IsDir() {
		testDirectory = filepath.Dir(testPath)
	}

	require.NoError(t, os.Chdir(testDirectory))
	defer func() {
		// We must leave the test directory or else clean up will fail
		require.NoError(t, os.Chdir(cwd))
	}()

	method()
}
