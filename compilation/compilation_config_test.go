package compilation

import (
	"context"
	"encoding/json"
	"os/exec"
	"testing"

	"github.com/crytic/hypcheck/compilation/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSupportedPlatforms verifies the registered platforms and their default configs.
func TestSupportedPlatforms(t *testing.T) {
	assert.Equal(t, []string{"hypc", "hypcjs"}, GetSupportedCompilationPlatforms())
	assert.True(t, IsSupportedCompilationPlatform("hypc"))
	assert.False(t, IsSupportedCompilationPlatform("solc"))

	for _, platform := range GetSupportedCompilationPlatforms() {
		assert.Equal(t, platform, GetDefaultPlatformConfig(platform).Platform())
	}

	_, err := NewCompilationConfig("solc")
	assert.Error(t, err)
}

// TestCompilationConfigRoundTrip verifies that a platform config survives being wrapped in a CompilationConfig and
// serialized.
func TestCompilationConfigRoundTrip(t *testing.T) {
	hypc := platforms.NewHypcCompilationConfig("/opt/hypc/bin/hypc")
	hypc.Args = []string{"--base-path", "."}

	config, err := NewCompilationConfigFromPlatformConfig(hypc)
	require.NoError(t, err)
	assert.Equal(t, "hypc", config.Platform)

	b, err := json.Marshal(config)
	require.NoError(t, err)

	var decoded CompilationConfig
	require.NoError(t, json.Unmarshal(b, &decoded))

	platformConfig, err := decoded.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, hypc, platformConfig)
}

// TestCompilationConfigSetCompilerPath verifies that the compiler path is updated inside the raw platform config.
func TestCompilationConfigSetCompilerPath(t *testing.T) {
	config, err := NewCompilationConfig("hypcjs")
	require.NoError(t, err)

	require.NoError(t, config.SetCompilerPath("./node_modules/@theqrl/hypc"))

	platformConfig, err := config.GetPlatformConfig()
	require.NoError(t, err)
	assert.Equal(t, "./node_modules/@theqrl/hypc", platformConfig.GetCompilerPath())
	assert.Equal(t, "node", platformConfig.(*platforms.HypcJSCompilationConfig).NodePath)
}

// TestCompilationConfigUnsupportedPlatform verifies that an unknown platform is rejected when loading.
func TestCompilationConfigUnsupportedPlatform(t *testing.T) {
	config := &CompilationConfig{Platform: "truffle"}
	_, err := config.GetPlatformConfig()
	assert.Error(t, err)
}

// TestResolveCompilerMissingBinary verifies that an unresolvable hypc binary is reported before any invocation.
func TestResolveCompilerMissingBinary(t *testing.T) {
	config, err := NewCompilationConfigFromPlatformConfig(platforms.NewHypcCompilationConfig("hypc-does-not-exist"))
	require.NoError(t, err)

	_, _, err = config.ResolveCompiler(context.Background())
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
