package compilation

import (
	"encoding/json"
	"testing"

	"github.com/crytic/hypcheck/compilation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReferenceSettings verifies the serialized form of the reference settings.
func TestReferenceSettings(t *testing.T) {
	b, err := json.Marshal(ReferenceSettings(types.ArtifactBytecode))
	require.NoError(t, err)
	assert.JSONEq(t, `{"optimizer":{"enabled":true},"outputSelection":{"*":{"*":["zvm.bytecode"]}}}`, string(b))
}

// TestSettingsFromPreset verifies the flags each preset maps to.
func TestSettingsFromPreset(t *testing.T) {
	testCases := []struct {
		preset   SettingsPreset
		optimize bool
		yul      bool
		viaIR    bool
	}{
		{PresetLegacyNoOptimize, false, false, false},
		{PresetIRNoOptimize, false, false, true},
		{PresetLegacyOptimizeZVMOnly, true, false, false},
		{PresetIROptimizeZVMOnly, true, false, true},
		{PresetLegacyOptimizeZVMYul, true, true, false},
		{PresetIROptimizeZVMYul, true, true, true},
	}
	require.Len(t, SupportedPresets(), len(testCases))

	for _, tc := range testCases {
		settings, err := SettingsFromPreset(tc.preset, "shanghai", types.ArtifactDeployedBytecode)
		require.NoError(t, err, tc.preset)
		assert.Equal(t, tc.optimize, settings.Optimizer.Enabled, tc.preset)
		require.NotNil(t, settings.Optimizer.Details, tc.preset)
		assert.Equal(t, tc.yul, settings.Optimizer.Details.Yul, tc.preset)
		assert.Equal(t, tc.viaIR, settings.ViaIR, tc.preset)
		assert.Equal(t, "shanghai", settings.ZVMVersion, tc.preset)
		assert.Equal(t, types.NewOutputSelection(types.ArtifactDeployedBytecode), settings.OutputSelection, tc.preset)
	}

	_, err := SettingsFromPreset("fast", "", types.ArtifactBytecode)
	assert.Error(t, err)
}
