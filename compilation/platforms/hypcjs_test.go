package platforms

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveModulePath verifies that only relative paths are rewritten.
func TestResolveModulePath(t *testing.T) {
	resolved, err := resolveModulePath("./node_modules/hypc")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))
	assert.Equal(t, "hypc", filepath.Base(resolved))

	for _, unchanged := range []string{"hypc", "@theqrl/hypc", "/opt/hypc-js/index.js"} {
		resolved, err = resolveModulePath(unchanged)
		require.NoError(t, err)
		assert.Equal(t, unchanged, resolved)
	}

	_, err = resolveModulePath("")
	assert.Error(t, err)
}

// TestHypcJSCompileStandardJSON drives a stand-in module exposing compile() through node, if node is installed.
func TestHypcJSCompileStandardJSON(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node is not installed")
	}

	// The stand-in binding wraps the input it was given
	module := filepath.Join(t.TempDir(), "index.js")
	writeFile(t, module, `module.exports = {
  compile: (input) => JSON.stringify({ echoed: JSON.parse(input) }),
  version: () => '0.1.7+commit.3e9c9f6b.Emscripten.clang',
};`)
	hypcjs := NewHypcJSCompilationConfig(module)

	output, err := hypcjs.CompileStandardJSON(context.Background(), []byte(`{"language":"Hyperion"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"echoed":{"language":"Hyperion"}}`, string(output))

	version, err := hypcjs.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.1.7+commit.3e9c9f6b", version.String())
}
