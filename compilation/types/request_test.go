package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRequest returns a request over three small sources with the reference settings.
func newTestRequest() CompilationRequest {
	return NewCompilationRequest(
		LanguageHyperion,
		map[string]SourceInput{
			"B.hyp": {Content: "contract B {}"},
			"A.hyp": {Content: "import \"B.hyp\"; contract A is B {}"},
			"C.hyp": {Content: "contract C {}"},
		},
		Settings{
			Optimizer:       OptimizerSettings{Enabled: true},
			OutputSelection: NewOutputSelection(ArtifactBytecode),
		},
	)
}

// TestMarshalIsStable verifies that serializing the same request repeatedly yields identical bytes in the shape the
// compiler expects.
func TestMarshalIsStable(t *testing.T) {
	request := newTestRequest()

	first, err := request.Marshal()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := request.Marshal()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.Equal(t, "Hyperion", decoded["language"])
	settings := decoded["settings"].(map[string]any)
	assert.Equal(t, map[string]any{"enabled": true}, settings["optimizer"])
	assert.Equal(t, map[string]any{"*": map[string]any{"*": []any{"zvm.bytecode"}}}, settings["outputSelection"])
	assert.NotContains(t, settings, "viaIR")
	assert.NotContains(t, settings, "zvmVersion")
}

// TestMarshalWithSourceOrder verifies that each source order produces a distinct serialization with the same content.
func TestMarshalWithSourceOrder(t *testing.T) {
	request := newTestRequest()
	canonical, err := request.Marshal()
	require.NoError(t, err)

	orders := [][]string{
		{"A.hyp", "B.hyp", "C.hyp"},
		{"C.hyp", "A.hyp", "B.hyp"},
		{"B.hyp", "C.hyp", "A.hyp"},
	}
	serialized := make(map[string]bool)
	for _, order := range orders {
		b, err := request.MarshalWithSourceOrder(order)
		require.NoError(t, err)
		serialized[string(b)] = true

		// The content is identical to the canonical form
		var decoded CompilationRequest
		require.NoError(t, json.Unmarshal(b, &decoded))
		roundTrip, err := decoded.Marshal()
		require.NoError(t, err)
		assert.JSONEq(t, string(canonical), string(roundTrip))
	}
	assert.Len(t, serialized, len(orders))

	// The sorted order matches the canonical encoding byte for byte
	sorted, err := request.MarshalWithSourceOrder(request.SourceNames())
	require.NoError(t, err)
	assert.Equal(t, canonical, sorted)
}

// TestMarshalWithSourceOrderRejectsBadOrders verifies that orders which do not name every source once are rejected.
func TestMarshalWithSourceOrderRejectsBadOrders(t *testing.T) {
	request := newTestRequest()

	_, err := request.MarshalWithSourceOrder([]string{"A.hyp", "B.hyp"})
	assert.Error(t, err)

	_, err = request.MarshalWithSourceOrder([]string{"A.hyp", "A.hyp", "B.hyp"})
	assert.Error(t, err)

	_, err = request.MarshalWithSourceOrder([]string{"A.hyp", "B.hyp", "D.hyp"})
	assert.Error(t, err)
}

// TestCloneIsDeep verifies that mutating a clone leaves the original untouched.
func TestCloneIsDeep(t *testing.T) {
	request := newTestRequest()
	request.Settings.Optimizer.Details = &OptimizerDetails{Yul: true}

	clone := request.Clone()
	clone.Sources["D.hyp"] = SourceInput{Content: "contract D {}"}
	clone.Settings.Optimizer.Details.Yul = false
	clone.Settings.OutputSelection["*"]["*"][0] = "zvm.deployedBytecode"

	assert.Len(t, request.Sources, 3)
	assert.True(t, request.Settings.Optimizer.Details.Yul)
	assert.Equal(t, "zvm.bytecode", request.Settings.OutputSelection["*"]["*"][0])
	assert.Equal(t, []string{"A.hyp", "B.hyp", "C.hyp"}, request.SourceNames())
}
