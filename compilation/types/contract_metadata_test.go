package types

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/fxamacker/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendMetadata appends a CBOR metadata section and its big-endian length to code, the way the compiler does.
func appendMetadata(t *testing.T, code []byte, metadata map[string]any) []byte {
	encoded, err := cbor.Marshal(metadata, cbor.EncOptions{})
	require.NoError(t, err)

	length := make([]byte, 2)
	binary.BigEndian.PutUint16(length, uint16(len(encoded)))

	bytecode := append(append([]byte{}, code...), encoded...)
	return append(bytecode, length...)
}

// TestSplitContractMetadata verifies that the metadata section is located through its trailing length.
func TestSplitContractMetadata(t *testing.T) {
	code := []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x00}
	ipfsHash := bytes.Repeat([]byte{0x12}, 34)
	bytecode := appendMetadata(t, code, map[string]any{
		"ipfs": ipfsHash,
		"hypc": []byte{0, 1, 7},
	})

	splitCode, metadataSection, ok := SplitContractMetadata(bytecode)
	require.True(t, ok)
	assert.Equal(t, code, splitCode)
	assert.Equal(t, bytecode[len(code):], metadataSection)
	assert.Equal(t, code, RemoveContractMetadata(bytecode))

	metadata := ExtractContractMetadata(bytecode)
	require.NotNil(t, metadata)
	assert.Equal(t, ipfsHash, metadata.ExtractBytecodeHash())
	assert.Equal(t, "0.1.7", metadata.ExtractCompilerVersion())
}

// TestSplitContractMetadataPrerelease verifies that string compiler versions are reported as-is.
func TestSplitContractMetadataPrerelease(t *testing.T) {
	bytecode := appendMetadata(t, []byte{0x00}, map[string]any{
		"ipfs": bytes.Repeat([]byte{0x01}, 34),
		"hypc": "0.1.8-develop.2024.1.1+commit.abcdef01",
	})

	metadata := ExtractContractMetadata(bytecode)
	require.NotNil(t, metadata)
	assert.Equal(t, "0.1.8-develop.2024.1.1+commit.abcdef01", metadata.ExtractCompilerVersion())
}

// TestSplitWithoutMetadata verifies that bytecode without metadata is returned untouched.
func TestSplitWithoutMetadata(t *testing.T) {
	bytecode := []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x00, 0x00, 0x03}

	code, metadataSection, ok := SplitContractMetadata(bytecode)
	assert.False(t, ok)
	assert.Nil(t, metadataSection)
	assert.Equal(t, bytecode, code)
	assert.Nil(t, ExtractContractMetadata(bytecode))
}

// TestBytecodeDigest verifies digests of hex and non-hex objects.
func TestBytecodeDigest(t *testing.T) {
	// Prefixed and unprefixed hex decode to the same bytes
	assert.Equal(t, BytecodeDigest("6080"), BytecodeDigest("0x6080"))
	assert.NotEqual(t, BytecodeDigest("6080"), BytecodeDigest("6081"))

	// Keccak-256 of the empty input
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", BytecodeDigest(""))

	// Unlinked placeholders are hashed as text
	unlinked := "73__$8f2a0b8c1e3d4f5a6b7c8d9e0f1a2b3c4d$__6080"
	_, err := DecodeBytecode(unlinked)
	assert.Error(t, err)
	assert.Len(t, BytecodeDigest(unlinked), 66)
}
